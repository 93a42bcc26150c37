package scheduler

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sandeepkv93/streakd/internal/model"
)

type TriggerKind string

const (
	TriggerAlarm TriggerKind = "alarm"
	TriggerChime TriggerKind = "chime"
)

// Snapshot is the read-only view of tracker state that one evaluation pass
// works on.
type Snapshot struct {
	Items []model.Item
	Today model.DayLog
	Quiet *model.QuietWindow
}

type Trigger struct {
	ID     string
	Ref    model.Ref
	Name   string
	Kind   TriggerKind
	Minute int
}

func (t Trigger) IsAlarm() bool { return t.Kind == TriggerAlarm }

// Result describes the minutes (From, To] crossed by one pass.
type Result struct {
	From     int
	To       int
	Triggers []Trigger
	Quiet    bool
}

func (r Result) HasAlarm() bool {
	for _, t := range r.Triggers {
		if t.IsAlarm() {
			return true
		}
	}
	return false
}

// Cue returns the single sound cue for the pass. An alarm beats a chime.
func (r Result) Cue() (TriggerKind, bool) {
	if len(r.Triggers) == 0 {
		return "", false
	}
	if r.HasAlarm() {
		return TriggerAlarm, true
	}
	return TriggerChime, true
}

// Evaluator decides which reminders fire between two sampled minutes. It
// keeps the last evaluated minute as its only state.
type Evaluator struct {
	mu   sync.Mutex
	last int
}

func NewEvaluator(start int) *Evaluator {
	return &Evaluator{last: normalizeMinute(start)}
}

func (e *Evaluator) Last() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Tick evaluates every boundary crossed since the previous call. It returns
// false when now equals the last evaluated minute. When now < last the day
// rolled over and the crossed range is (last, 1439] plus [0, now].
func (e *Evaluator) Tick(now int, snap Snapshot) (Result, bool) {
	now = normalizeMinute(now)

	e.mu.Lock()
	defer e.mu.Unlock()

	last := e.last
	if now == last {
		return Result{}, false
	}
	e.last = now

	res := Result{From: last, To: now, Quiet: QuietActive(snap.Quiet, now)}
	for _, it := range snap.Items {
		if !model.IsActive(it) {
			continue
		}
		sched := it.Schedule()
		if r, ok := sched.ReminderMinute(); ok && crossedFixed(last, now, r) {
			res.Triggers = append(res.Triggers, newTrigger(it, TriggerAlarm, now))
			continue
		}
		if sched.HasInterval() && crossedInterval(last, now, sched.Interval) && !model.IsCompleteToday(it, snap.Today) {
			res.Triggers = append(res.Triggers, newTrigger(it, TriggerChime, now))
		}
	}
	return res, true
}

func crossedFixed(last, now, r int) bool {
	if now > last {
		return last < r && r <= now
	}
	return r > last || r <= now
}

func crossedInterval(last, now, k int) bool {
	if now < last {
		return true
	}
	return now/k > last/k
}

func newTrigger(it model.Item, kind TriggerKind, minute int) Trigger {
	return Trigger{
		ID:     uuid.NewString(),
		Ref:    it.Ref(),
		Name:   it.Label(),
		Kind:   kind,
		Minute: minute,
	}
}

func normalizeMinute(m int) int {
	return ((m % model.MinutesPerDay) + model.MinutesPerDay) % model.MinutesPerDay
}
