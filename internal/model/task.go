package model

import (
	"errors"
	"fmt"
	"strings"
)

type Task struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Done         bool   `json:"done"`
	CompletedOn  string `json:"completedOn,omitempty"`
	ReminderTime string `json:"reminderTime,omitempty"`
	Interval     int    `json:"interval,omitempty"`
	XP           int    `json:"xp"`
}

func (t Task) Ref() Ref      { return Ref{Kind: ItemTask, ID: t.ID} }
func (t Task) Label() string { return t.Name }
func (t Task) Reward() int   { return t.XP }
func (t Task) isItem()       {}

func (t Task) Schedule() Schedule {
	return Schedule{ReminderTime: t.ReminderTime, Interval: t.Interval}
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if t.XP < 0 || t.XP > MaxAmount {
		return fmt.Errorf("%w: %d", ErrInvalidReward, t.XP)
	}
	if !t.Done && t.CompletedOn != "" {
		return errors.New("model: completedOn must be empty when task is not done")
	}
	return t.Schedule().Validate()
}
