package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCompletionKind = errors.New("model: invalid completion kind")
	ErrInvalidReward         = errors.New("model: invalid reward")
	ErrInvalidTarget         = errors.New("model: invalid target")
)

type CompletionKind string

const (
	CompletionBoolean CompletionKind = "boolean"
	CompletionNumeric CompletionKind = "numeric"
)

func (k CompletionKind) IsValid() bool {
	switch k {
	case CompletionBoolean, CompletionNumeric:
		return true
	default:
		return false
	}
}

type Habit struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Kind           CompletionKind `json:"kind"`
	Target         int            `json:"target,omitempty"`
	CategoryID     string         `json:"categoryId,omitempty"`
	LegacyCategory string         `json:"category,omitempty"`
	ReminderTime   string         `json:"reminderTime,omitempty"`
	Interval       int            `json:"interval,omitempty"`
	XP             int            `json:"xp"`
	Deleted        bool           `json:"deleted,omitempty"`
}

func (h Habit) Ref() Ref        { return Ref{Kind: ItemHabit, ID: h.ID} }
func (h Habit) Label() string   { return h.Name }
func (h Habit) Reward() int     { return h.XP }
func (h Habit) isItem()         {}
func (h Habit) IsNumeric() bool { return h.Kind == CompletionNumeric }

func (h Habit) Schedule() Schedule {
	return Schedule{ReminderTime: h.ReminderTime, Interval: h.Interval}
}

// EffectiveTarget is the count at which a numeric habit is done for the day.
func (h Habit) EffectiveTarget() int {
	if h.Target <= 0 {
		return 1
	}
	return h.Target
}

func (h Habit) IsComplete(v Value) bool {
	switch h.Kind {
	case CompletionNumeric:
		return v.Count() >= h.EffectiveTarget()
	default:
		return v.Truthy()
	}
}

func (h Habit) Validate() error {
	if h.ID <= 0 {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if !h.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCompletionKind, h.Kind)
	}
	if h.Kind == CompletionNumeric && (h.Target < 0 || h.Target > MaxAmount) {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, h.Target)
	}
	if h.XP < 0 || h.XP > MaxAmount {
		return fmt.Errorf("%w: %d", ErrInvalidReward, h.XP)
	}
	return h.Schedule().Validate()
}
