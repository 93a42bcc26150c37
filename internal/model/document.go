package model

import (
	"errors"
	"fmt"
)

// Progress is the player's experience state. Level starts at 1.
type Progress struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

func NewProgress() Progress {
	return Progress{XP: 0, Level: 1}
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func DefaultCategories() []Category {
	return []Category{
		{ID: "health", Name: "Health"},
		{ID: "mind", Name: "Mind"},
		{ID: "work", Name: "Work"},
		{ID: "other", Name: "Other"},
	}
}

type Settings struct {
	QuietWindow *QuietWindow `json:"quietWindow,omitempty"`
	Sound       bool         `json:"sound"`
	Vibration   bool         `json:"vibration"`
}

// Document is the complete persisted state. It is also the export format.
type Document struct {
	Progress   Progress   `json:"progress"`
	Habits     []Habit    `json:"habits"`
	Tasks      []Task     `json:"tasks"`
	Categories []Category `json:"categories"`
	Log        Log        `json:"log"`
	Settings   Settings   `json:"settings"`
	// LastID is the highest id ever handed out. It only grows, so an id
	// freed by a deleted task is never given to a new item.
	LastID int64 `json:"lastId,omitempty"`
}

func NewDocument() Document {
	return Document{
		Progress:   NewProgress(),
		Habits:     []Habit{},
		Tasks:      []Task{},
		Categories: DefaultCategories(),
		Log:        Log{},
		Settings:   Settings{Sound: true},
	}
}

func (d Document) Clone() Document {
	out := d
	out.Habits = append([]Habit{}, d.Habits...)
	out.Tasks = append([]Task{}, d.Tasks...)
	out.Categories = append([]Category{}, d.Categories...)
	out.Log = d.Log.Clone()
	if d.Settings.QuietWindow != nil {
		w := *d.Settings.QuietWindow
		out.Settings.QuietWindow = &w
	}
	return out
}

// NextID returns an id never used by any habit or task, including deleted
// ones. Callers that store the item must record it in LastID.
func (d Document) NextID() int64 {
	return d.maxID() + 1
}

func (d Document) maxID() int64 {
	max := d.LastID
	for _, h := range d.Habits {
		if h.ID > max {
			max = h.ID
		}
	}
	for _, t := range d.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

func (d Document) HabitIndex(id int64) int {
	for i := range d.Habits {
		if d.Habits[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Document) TaskIndex(id int64) int {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Document) Item(ref Ref) (Item, bool) {
	switch ref.Kind {
	case ItemHabit:
		if i := d.HabitIndex(ref.ID); i >= 0 {
			return d.Habits[i], true
		}
	case ItemTask:
		if i := d.TaskIndex(ref.ID); i >= 0 {
			return d.Tasks[i], true
		}
	}
	return nil, false
}

// Items lists habits followed by tasks.
func (d Document) Items() []Item {
	out := make([]Item, 0, len(d.Habits)+len(d.Tasks))
	for _, h := range d.Habits {
		out = append(out, h)
	}
	for _, t := range d.Tasks {
		out = append(out, t)
	}
	return out
}

func (d Document) Validate() error {
	if d.Progress.Level < 1 {
		return fmt.Errorf("model: progress level must be >= 1, got %d", d.Progress.Level)
	}
	if d.Progress.XP < 0 {
		return fmt.Errorf("model: progress xp must be >= 0, got %d", d.Progress.XP)
	}
	seen := make(map[int64]bool, len(d.Habits)+len(d.Tasks))
	for _, h := range d.Habits {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %d: %w", h.ID, err)
		}
		if seen[h.ID] {
			return fmt.Errorf("model: duplicate item id %d", h.ID)
		}
		seen[h.ID] = true
	}
	for _, t := range d.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("model: duplicate item id %d", t.ID)
		}
		seen[t.ID] = true
	}
	if err := d.Settings.QuietWindow.Validate(); err != nil {
		return err
	}
	for _, c := range d.Categories {
		if c.ID == "" {
			return errors.New("model: category id is required")
		}
	}
	return nil
}
