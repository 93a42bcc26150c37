// Package tracker owns the in-memory document and is the only place that
// mutates it. Every operation is one transition under a single lock; the
// resulting document is persisted afterwards from a copy.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/streakd/internal/clock"
	"github.com/sandeepkv93/streakd/internal/leveling"
	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/notify"
	"github.com/sandeepkv93/streakd/internal/scheduler"
	"github.com/sandeepkv93/streakd/internal/storage"
	"github.com/sandeepkv93/streakd/internal/streak"
)

var (
	ErrItemNotFound   = errors.New("tracker: item not found")
	ErrItemInactive   = errors.New("tracker: item is not active")
	ErrNotNumeric     = errors.New("tracker: habit is not numeric")
	ErrNothingToUndo  = errors.New("tracker: nothing to undo")
	ErrAmountTooLarge = errors.New("tracker: amount too large")
)

const permissionToast = "Desktop notifications are blocked; reminders will only show here."

type Options struct {
	// Store is optional; without one the tracker keeps state in memory.
	Store    storage.DocumentStore
	Notifier notify.Notifier
	Player   notify.Player
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Alarm is the single active alarm shown until dismissed or completed.
type Alarm struct {
	TriggerID string
	Ref       model.Ref
	Name      string
	Minute    int
}

type Tracker struct {
	mu     sync.Mutex
	saveMu sync.Mutex

	doc            model.Document
	alarm          *Alarm
	toast          string
	toastSeq       uint64
	deniedReported bool

	store     storage.DocumentStore
	notifier  notify.Notifier
	player    notify.Player
	sampler   clock.Sampler
	logger    *slog.Logger
	evaluator *scheduler.Evaluator

	// dispatch runs notification delivery off the caller's goroutine.
	dispatch func(func())
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(opts Options) *Tracker {
	if opts.Notifier == nil {
		opts.Notifier = notify.NopNotifier{}
	}
	if opts.Player == nil {
		opts.Player = notify.NopPlayer{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	sampler := clock.NewSampler(opts.Clock)
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		doc:       model.NewDocument(),
		store:     opts.Store,
		notifier:  opts.Notifier,
		player:    opts.Player,
		sampler:   sampler,
		logger:    opts.Logger,
		evaluator: scheduler.NewEvaluator(sampler.Sample()),
		dispatch:  func(fn func()) { go fn() },
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close cancels in-flight notification deliveries and silences audio.
func (t *Tracker) Close() {
	t.cancel()
	t.player.Stop()
}

// Load replaces the in-memory document with the stored one. An empty store
// leaves the fresh default document in place.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	doc, err := t.store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	doc.Progress = leveling.Normalize(doc.Progress)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.doc = doc
	return nil
}

// Snapshot returns a deep copy of the current document.
func (t *Tracker) Snapshot() model.Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doc.Clone()
}

func (t *Tracker) Progress() model.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doc.Progress
}

func (t *Tracker) ActiveAlarm() (Alarm, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.alarm == nil {
		return Alarm{}, false
	}
	return *t.alarm, true
}

func (t *Tracker) Toast() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.toast
}

// ToastSeq changes every time a toast is set, including from notification
// deliveries that finish after Tick returned.
func (t *Tracker) ToastSeq() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.toastSeq
}

func (t *Tracker) ClearToast() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toast = ""
}

// ClearToastIf clears the toast only if no newer one replaced it since seq.
func (t *Tracker) ClearToastIf(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.toastSeq == seq {
		t.toast = ""
	}
}

// setToast must be called with t.mu held.
func (t *Tracker) setToast(text string) {
	t.toast = text
	t.toastSeq++
}

// Today is the current date key.
func (t *Tracker) Today() string {
	return t.sampler.Today()
}

// Minute is the current local minute of the day.
func (t *Tracker) Minute() int {
	return t.sampler.Sample()
}

func (t *Tracker) Streak(id int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return streak.Count(t.doc.Log, id, t.sampler.Today())
}

func (t *Tracker) LongestStreak(id int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return streak.Longest(t.doc.Log, id)
}

// Dismiss clears the active alarm and stops audio. It does not persist.
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	t.alarm = nil
	t.mu.Unlock()
	t.player.Stop()
}

// commit persists doc after a transition. It must be called with t.mu held
// and releases it; saveMu keeps writes in transition order.
func (t *Tracker) commit(ctx context.Context) error {
	if t.store == nil {
		t.mu.Unlock()
		return nil
	}
	snap := t.doc.Clone()
	t.saveMu.Lock()
	t.mu.Unlock()
	defer t.saveMu.Unlock()

	if err := t.store.Save(ctx, snap); err != nil {
		t.logger.Error("persist document", "error", err)
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
