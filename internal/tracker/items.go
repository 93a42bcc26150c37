package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/streakd/internal/leveling"
	"github.com/sandeepkv93/streakd/internal/model"
)

// AddHabit assigns a fresh id and stores the habit. Empty kind means boolean.
func (t *Tracker) AddHabit(ctx context.Context, h model.Habit) (model.Habit, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Kind == "" {
		h.Kind = model.CompletionBoolean
	}
	h.Deleted = false
	h.LegacyCategory = ""

	t.mu.Lock()
	h.ID = t.doc.NextID()
	if err := h.Validate(); err != nil {
		t.mu.Unlock()
		return model.Habit{}, err
	}
	if err := t.checkCategory(h.CategoryID); err != nil {
		t.mu.Unlock()
		return model.Habit{}, err
	}
	t.doc.Habits = append(t.doc.Habits, h)
	t.doc.LastID = h.ID
	return h, t.commit(ctx)
}

// UpdateHabit replaces the editable fields of an existing habit. The id and
// the soft-delete flag are kept.
func (t *Tracker) UpdateHabit(ctx context.Context, h model.Habit) error {
	h.Name = strings.TrimSpace(h.Name)
	t.mu.Lock()
	i := t.doc.HabitIndex(h.ID)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrItemNotFound, h.ID)
	}
	h.Deleted = t.doc.Habits[i].Deleted
	if h.Kind == "" {
		h.Kind = t.doc.Habits[i].Kind
	}
	if err := h.Validate(); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.checkCategory(h.CategoryID); err != nil {
		t.mu.Unlock()
		return err
	}
	t.doc.Habits[i] = h
	return t.commit(ctx)
}

// DeleteHabit hides the habit but keeps its log so history and XP survive.
func (t *Tracker) DeleteHabit(ctx context.Context, id int64) error {
	t.mu.Lock()
	i := t.doc.HabitIndex(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrItemNotFound, id)
	}
	t.doc.Habits[i].Deleted = true
	t.clearAlarmFor(t.doc.Habits[i].Ref())
	return t.commit(ctx)
}

func (t *Tracker) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	task.Name = strings.TrimSpace(task.Name)
	task.Done = false
	task.CompletedOn = ""

	t.mu.Lock()
	task.ID = t.doc.NextID()
	if err := task.Validate(); err != nil {
		t.mu.Unlock()
		return model.Task{}, err
	}
	t.doc.Tasks = append(t.doc.Tasks, task)
	t.doc.LastID = task.ID
	return task, t.commit(ctx)
}

// DeleteTask removes the task outright.
func (t *Tracker) DeleteTask(ctx context.Context, id int64) error {
	t.mu.Lock()
	i := t.doc.TaskIndex(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: task %d", ErrItemNotFound, id)
	}
	t.clearAlarmFor(t.doc.Tasks[i].Ref())
	t.doc.Tasks = append(t.doc.Tasks[:i], t.doc.Tasks[i+1:]...)
	return t.commit(ctx)
}

// Delete soft-deletes habits and hard-deletes tasks.
func (t *Tracker) Delete(ctx context.Context, ref model.Ref) error {
	switch ref.Kind {
	case model.ItemHabit:
		return t.DeleteHabit(ctx, ref.ID)
	case model.ItemTask:
		return t.DeleteTask(ctx, ref.ID)
	default:
		return fmt.Errorf("%w: %s", model.ErrInvalidItemKind, ref.Kind)
	}
}

// SetQuietWindow installs or (with nil) clears the quiet window.
func (t *Tracker) SetQuietWindow(ctx context.Context, w *model.QuietWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	if w != nil {
		cp := *w
		w = &cp
	}
	t.doc.Settings.QuietWindow = w
	return t.commit(ctx)
}

func (t *Tracker) SetSound(ctx context.Context, on bool) error {
	t.mu.Lock()
	t.doc.Settings.Sound = on
	if !on {
		t.player.Stop()
	}
	return t.commit(ctx)
}

func (t *Tracker) AddCategory(ctx context.Context, c model.Category) error {
	c.ID = strings.ToLower(strings.TrimSpace(c.ID))
	if c.ID == "" {
		return fmt.Errorf("tracker: category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		c.Name = c.ID
	}
	t.mu.Lock()
	for _, existing := range t.doc.Categories {
		if existing.ID == c.ID {
			t.mu.Unlock()
			return fmt.Errorf("tracker: category %q already exists", c.ID)
		}
	}
	t.doc.Categories = append(t.doc.Categories, c)
	return t.commit(ctx)
}

// checkCategory requires a known category id when one is given. t.mu must be
// held.
func (t *Tracker) checkCategory(id string) error {
	if id == "" {
		return nil
	}
	for _, c := range t.doc.Categories {
		if c.ID == id {
			return nil
		}
	}
	return fmt.Errorf("tracker: unknown category %q", id)
}

// Recalculate rebuilds progress from the whole log with current rewards.
func (t *Tracker) Recalculate(ctx context.Context) (model.Progress, error) {
	t.mu.Lock()
	t.doc.Progress = leveling.Recalculate(t.doc.Habits, t.doc.Tasks, t.doc.Log)
	p := t.doc.Progress
	return p, t.commit(ctx)
}

// Reset wipes every item, log entry and point of progress. The id counter is
// kept so notifications still on screen cannot reach a new item.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	last := t.doc.LastID
	t.doc = model.NewDocument()
	t.doc.LastID = last
	t.alarm = nil
	t.toast = ""
	t.player.Stop()
	return t.commit(ctx)
}

func (t *Tracker) Export() ([]byte, error) {
	return model.EncodeDocument(t.Snapshot())
}

// Import replaces all state with the decoded document. Malformed input is
// rejected before anything changes. The id counter never moves backwards.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	doc, err := model.DecodeDocument(data)
	if err != nil {
		return err
	}
	doc.Progress = leveling.Normalize(doc.Progress)

	t.mu.Lock()
	doc.LastID = max(doc.LastID, t.doc.LastID)
	t.doc = doc
	t.alarm = nil
	t.player.Stop()
	return t.commit(ctx)
}

// Resolve completes a reference whose kind may be empty. Habits and tasks
// draw ids from one sequence, so a bare id matches at most one item.
func (t *Tracker) Resolve(kind model.ItemKind, id int64) (model.Ref, error) {
	if kind != "" {
		return model.Ref{Kind: kind, ID: id}, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.doc.HabitIndex(id) >= 0 {
		return model.Ref{Kind: model.ItemHabit, ID: id}, nil
	}
	if t.doc.TaskIndex(id) >= 0 {
		return model.Ref{Kind: model.ItemTask, ID: id}, nil
	}
	return model.Ref{}, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
}
