package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidItemKind = errors.New("model: invalid item kind")

type ItemKind string

const (
	ItemHabit ItemKind = "habit"
	ItemTask  ItemKind = "task"
)

func (k ItemKind) IsValid() bool {
	switch k {
	case ItemHabit, ItemTask:
		return true
	default:
		return false
	}
}

func ParseItemKind(input string) (ItemKind, error) {
	k := ItemKind(strings.ToLower(strings.TrimSpace(input)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidItemKind, input)
	}
	return k, nil
}

// Ref identifies a trackable item across both kinds.
type Ref struct {
	Kind ItemKind `json:"kind"`
	ID   int64    `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Item is the closed set of trackable things: Habit and Task.
type Item interface {
	Ref() Ref
	Label() string
	Schedule() Schedule
	Reward() int
	isItem()
}

// IsCompleteToday reports whether the item needs no further reminders today.
func IsCompleteToday(it Item, today DayLog) bool {
	switch v := it.(type) {
	case Habit:
		return v.IsComplete(today.Get(v.ID))
	case Task:
		return v.Done
	default:
		panic(fmt.Sprintf("model: unhandled item type %T", it))
	}
}

// IsActive reports whether the item takes part in reminder evaluation.
func IsActive(it Item) bool {
	switch v := it.(type) {
	case Habit:
		return !v.Deleted
	case Task:
		return !v.Done
	default:
		panic(fmt.Sprintf("model: unhandled item type %T", it))
	}
}
