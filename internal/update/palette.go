package update

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/streakd/internal/commands"
	"github.com/sandeepkv93/streakd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
				m.commandInput.SetValue(m.commandInput.Value() + " ")
			}
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m = m.setStatus(err.Error(), true)
		m = m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers(context.Background()))
	if err != nil {
		m = m.setStatus(err.Error(), true)
	} else {
		m = m.setStatus(res.Message, false)
	}
	return m.closePalette()
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) paletteHandlers(ctx context.Context) commands.Handlers {
	t := m.Tracker
	target := func(a commands.TargetArgs) (model.Ref, error) {
		return t.Resolve(a.Kind, a.ID)
	}
	return commands.Handlers{
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			ref, err := target(a)
			if err != nil {
				return commands.Result{}, err
			}
			if err := t.Complete(ctx, ref); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("completed %s", ref)}, nil
		},
		Undo: func(a commands.TargetArgs) (commands.Result, error) {
			ref, err := target(a)
			if err != nil {
				return commands.Result{}, err
			}
			if err := t.Undo(ctx, ref); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("undid %s", ref)}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			ref, err := target(a)
			if err != nil {
				return commands.Result{}, err
			}
			if err := t.Delete(ctx, ref); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %s", ref)}, nil
		},
		Inc: func(a commands.AmountArgs) (commands.Result, error) {
			if err := t.Increment(ctx, a.ID, a.Units); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("habit %d +%d", a.ID, a.Units)}, nil
		},
		Dec: func(a commands.AmountArgs) (commands.Result, error) {
			if err := t.Decrement(ctx, a.ID, a.Units); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("habit %d -%d", a.ID, a.Units)}, nil
		},
		Dismiss: func() (commands.Result, error) {
			t.Dismiss()
			return commands.Result{Message: "alarm dismissed"}, nil
		},
		Habit: func(a commands.HabitArgs) (commands.Result, error) {
			h := model.Habit{
				Name:         a.Name,
				ReminderTime: a.ReminderTime,
				Interval:     a.Interval,
				XP:           a.XP,
				Target:       a.Target,
				CategoryID:   a.CategoryID,
			}
			if a.Target > 0 {
				h.Kind = model.CompletionNumeric
			}
			added, err := t.AddHabit(ctx, h)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added habit %d: %s", added.ID, added.Name)}, nil
		},
		Task: func(a commands.TaskArgs) (commands.Result, error) {
			added, err := t.AddTask(ctx, model.Task{
				Name:         a.Name,
				ReminderTime: a.ReminderTime,
				Interval:     a.Interval,
				XP:           a.XP,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added task %d: %s", added.ID, added.Name)}, nil
		},
		Quiet: func(a commands.QuietArgs) (commands.Result, error) {
			if a.Off {
				if err := t.SetQuietWindow(ctx, nil); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "quiet hours off"}, nil
			}
			if err := t.SetQuietWindow(ctx, &model.QuietWindow{Start: a.Start, End: a.End}); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("quiet hours %s-%s", a.Start, a.End)}, nil
		},
		Sound: func(a commands.ToggleArgs) (commands.Result, error) {
			if err := t.SetSound(ctx, a.On); err != nil {
				return commands.Result{}, err
			}
			if a.On {
				return commands.Result{Message: "sound on"}, nil
			}
			return commands.Result{Message: "sound off"}, nil
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			data, err := t.Export()
			if err != nil {
				return commands.Result{}, err
			}
			if err := os.WriteFile(a.Path, data, 0o644); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported to %s", a.Path)}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			data, err := os.ReadFile(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			if err := t.Import(ctx, data); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("imported %s", a.Path)}, nil
		},
		Recalc: func() (commands.Result, error) {
			p, err := t.Recalculate(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("recalculated: level %d, %d xp", p.Level, p.XP)}, nil
		},
	}
}
