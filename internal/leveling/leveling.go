// Package leveling converts experience deltas into normalized (xp, level)
// pairs. Reaching level L+1 from level L costs L*PointsPerLevel XP.
package leveling

import (
	"math"

	"github.com/sandeepkv93/streakd/internal/model"
)

const PointsPerLevel = 100

// Threshold returns the XP needed to leave the given level.
func Threshold(level int) int {
	return level * PointsPerLevel
}

// Normalize restores 1 <= level and 0 <= xp < Threshold(level).
func Normalize(p model.Progress) model.Progress {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XP < 0 {
		p.XP = 0
	}
	for p.XP >= Threshold(p.Level) {
		p.XP -= Threshold(p.Level)
		p.Level++
	}
	return p
}

// ApplyDelta adds delta XP. Gains carry into level-ups; losses clamp XP at
// zero and never lower the level, so undoing a completion right after a
// level-up does not take the level back.
func ApplyDelta(p model.Progress, delta int) model.Progress {
	p = Normalize(p)
	p.XP = addXP(p.XP, delta)
	if delta < 0 {
		if p.XP < 0 {
			p.XP = 0
		}
		return p
	}
	return Normalize(p)
}

// Earned is the XP a habit's log value is worth: the reward once for a
// boolean completion, reward per unit for numeric habits.
func Earned(h model.Habit, v model.Value) int {
	if h.IsNumeric() {
		return h.XP * v.Count()
	}
	if v.Truthy() {
		return h.XP
	}
	return 0
}

// Recalculate rebuilds progress from scratch by summing the whole log against
// the current reward values plus every done task. Log entries for ids that no
// longer exist are ignored.
func Recalculate(habits []model.Habit, tasks []model.Task, log model.Log) model.Progress {
	byID := make(map[int64]model.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	total := 0
	for _, day := range log {
		for id, v := range day {
			if h, ok := byID[id]; ok {
				total = addXP(total, Earned(h, v))
			}
		}
	}
	for _, t := range tasks {
		if t.Done {
			total = addXP(total, t.XP)
		}
	}
	return ApplyDelta(model.NewProgress(), total)
}

// addXP adds b to a, saturating at math.MaxInt instead of wrapping.
func addXP(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
