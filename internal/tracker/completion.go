package tracker

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/streakd/internal/leveling"
	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/remote"
)

// Complete marks the item done for today. Boolean habits and tasks that are
// already done are left alone; numeric habits gain one unit.
func (t *Tracker) Complete(ctx context.Context, ref model.Ref) error {
	t.mu.Lock()
	changed, err := t.applyCompletion(ref, 1)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.clearAlarmFor(ref)
	if !changed {
		t.mu.Unlock()
		return nil
	}
	return t.commit(ctx)
}

// Increment adds units to a numeric habit and awards reward*units in one step.
func (t *Tracker) Increment(ctx context.Context, id int64, units int) error {
	if units <= 0 {
		return fmt.Errorf("tracker: increment must be positive, got %d", units)
	}
	t.mu.Lock()
	i := t.doc.HabitIndex(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrItemNotFound, id)
	}
	if !t.doc.Habits[i].IsNumeric() {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrNotNumeric, id)
	}
	ref := t.doc.Habits[i].Ref()
	if current := t.doc.Log.Get(t.sampler.Today(), id).Count(); units > model.MaxAmount-current {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d has %d, cannot add %d", ErrAmountTooLarge, id, current, units)
	}
	if _, err := t.applyCompletion(ref, units); err != nil {
		t.mu.Unlock()
		return err
	}
	t.clearAlarmFor(ref)
	return t.commit(ctx)
}

// Decrement removes up to units from today's count of a numeric habit.
func (t *Tracker) Decrement(ctx context.Context, id int64, units int) error {
	if units <= 0 {
		return fmt.Errorf("tracker: decrement must be positive, got %d", units)
	}
	t.mu.Lock()
	i := t.doc.HabitIndex(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrItemNotFound, id)
	}
	h := t.doc.Habits[i]
	if !h.IsNumeric() {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrNotNumeric, id)
	}
	today := t.sampler.Today()
	current := t.doc.Log.Get(today, id).Count()
	if current == 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: habit %d", ErrNothingToUndo, id)
	}
	removed := min(units, current)
	t.doc.Log.Set(today, id, model.CountValue(current-removed))
	t.doc.Progress = leveling.ApplyDelta(t.doc.Progress, -h.XP*removed)
	return t.commit(ctx)
}

// Undo reverts today's completion of an item. The level never goes down.
func (t *Tracker) Undo(ctx context.Context, ref model.Ref) error {
	if ref.Kind == model.ItemHabit {
		t.mu.Lock()
		i := t.doc.HabitIndex(ref.ID)
		numeric := i >= 0 && t.doc.Habits[i].IsNumeric()
		t.mu.Unlock()
		if numeric {
			return t.Decrement(ctx, ref.ID, 1)
		}
	}

	t.mu.Lock()
	today := t.sampler.Today()
	switch ref.Kind {
	case model.ItemHabit:
		i := t.doc.HabitIndex(ref.ID)
		if i < 0 {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrItemNotFound, ref)
		}
		if !t.doc.Log.Get(today, ref.ID).Truthy() {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrNothingToUndo, ref)
		}
		t.doc.Log.Set(today, ref.ID, model.BoolValue(false))
		t.doc.Progress = leveling.ApplyDelta(t.doc.Progress, -t.doc.Habits[i].XP)
	case model.ItemTask:
		i := t.doc.TaskIndex(ref.ID)
		if i < 0 {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrItemNotFound, ref)
		}
		task := &t.doc.Tasks[i]
		if !task.Done {
			t.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrNothingToUndo, ref)
		}
		task.Done = false
		task.CompletedOn = ""
		t.doc.Progress = leveling.ApplyDelta(t.doc.Progress, -task.XP)
	default:
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", model.ErrInvalidItemKind, ref.Kind)
	}
	return t.commit(ctx)
}

// HandleRemote applies an action that arrived from outside the UI. Complete
// goes through the same path as a local completion; both actions clear the
// active alarm and stop audio.
func (t *Tracker) HandleRemote(ctx context.Context, a remote.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Action == remote.ActionDismiss {
		t.Dismiss()
		return nil
	}

	t.mu.Lock()
	changed, err := t.applyCompletion(a.Ref(), 1)
	t.alarm = nil
	t.player.Stop()
	if err != nil {
		t.mu.Unlock()
		return err
	}
	if !changed {
		t.mu.Unlock()
		return nil
	}
	t.logger.Info("remote completion", "item_id", a.ItemID, "kind", a.Kind, "source", a.Source)
	return t.commit(ctx)
}

// applyCompletion records a completion of units against ref for today and
// awards XP. It reports whether anything changed. t.mu must be held.
func (t *Tracker) applyCompletion(ref model.Ref, units int) (bool, error) {
	today := t.sampler.Today()
	switch ref.Kind {
	case model.ItemHabit:
		i := t.doc.HabitIndex(ref.ID)
		if i < 0 {
			return false, fmt.Errorf("%w: %s", ErrItemNotFound, ref)
		}
		h := t.doc.Habits[i]
		if h.Deleted {
			return false, fmt.Errorf("%w: %s", ErrItemInactive, ref)
		}
		current := t.doc.Log.Get(today, h.ID)
		if h.IsNumeric() {
			if current.Count() >= model.MaxAmount {
				return false, fmt.Errorf("%w: %s", ErrAmountTooLarge, ref)
			}
			t.doc.Log.Set(today, h.ID, model.CountValue(current.Count()+units))
			t.doc.Progress = leveling.ApplyDelta(t.doc.Progress, h.XP*units)
			return true, nil
		}
		if current.Truthy() {
			return false, nil
		}
		t.doc.Log.Set(today, h.ID, model.BoolValue(true))
		t.doc.Progress = leveling.ApplyDelta(t.doc.Progress, h.XP)
		return true, nil
	case model.ItemTask:
		i := t.doc.TaskIndex(ref.ID)
		if i < 0 {
			return false, fmt.Errorf("%w: %s", ErrItemNotFound, ref)
		}
		task := &t.doc.Tasks[i]
		if task.Done {
			return false, nil
		}
		task.Done = true
		task.CompletedOn = today
		t.doc.Progress = leveling.ApplyDelta(t.doc.Progress, task.XP)
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", model.ErrInvalidItemKind, ref.Kind)
	}
}

// clearAlarmFor drops the active alarm when it belongs to ref. t.mu must be
// held.
func (t *Tracker) clearAlarmFor(ref model.Ref) {
	if t.alarm != nil && t.alarm.Ref == ref {
		t.alarm = nil
		t.player.Stop()
	}
}
