package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/notify"
	"github.com/sandeepkv93/streakd/internal/remote"
	"github.com/sandeepkv93/streakd/internal/tracker"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), hour, minute, 0, 0, c.now.Location())
}

func newTestModel(t *testing.T, hour, minute int) (Model, *tracker.Tracker, *testClock) {
	t.Helper()
	clk := &testClock{now: time.Date(2024, 5, 6, hour, minute, 0, 0, time.Local)}
	tr := tracker.New(tracker.Options{Clock: clk})
	t.Cleanup(tr.Close)
	return NewModel(Options{Tracker: tr}), tr, clk
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func runPalette(t *testing.T, m Model, input string) Model {
	t.Helper()
	updated, _ := m.Update(runes("/"))
	m = updated.(Model)
	if !m.Palette.Active {
		t.Fatal("expected palette to be active")
	}
	updated, _ = m.Update(runes(input))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.Palette.Active {
		t.Fatal("expected palette to close after enter")
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t, 8, 0)
	if m.CurrentView != ViewHabits {
		t.Fatalf("expected default view %q, got %q", ViewHabits, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _, _ := newTestModel(t, 8, 0)
	updated, _ := m.Update(runes("2"))
	next := updated.(Model)
	if next.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(runes("3"))
	next = updated.(Model)
	if next.CurrentView != ViewProgress {
		t.Fatalf("expected progress view, got %q", next.CurrentView)
	}
	if !strings.Contains(next.View(), "level 1  0/100 xp") {
		t.Fatalf("expected progress panel in view: %q", next.View())
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m, _, _ := newTestModel(t, 8, 0)
	updated, _ := m.Update(SwitchViewMsg{View: ViewTasks})
	next := updated.(Model)
	if next.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewTasks {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _, _ := newTestModel(t, 8, 0)
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestPaletteAddsAndCompletesHabit(t *testing.T) {
	m, tr, _ := newTestModel(t, 8, 0)
	m = runPalette(t, m, "habit Read xp:10")
	if m.Status.IsError || !strings.Contains(m.Status.Text, "added habit 1: Read") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = runPalette(t, m, "done 1")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %+v", m.Status)
	}
	if got := tr.Progress(); got.XP != 10 || got.Level != 1 {
		t.Fatalf("unexpected progress: %+v", got)
	}

	m = runPalette(t, m, "done 42")
	if !m.Status.IsError {
		t.Fatalf("expected error for unknown id, got %+v", m.Status)
	}

	m = runPalette(t, m, "bogus")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestSpaceCompletesSelectedHabit(t *testing.T) {
	m, tr, _ := newTestModel(t, 8, 0)
	ctx := context.Background()
	if _, err := tr.AddHabit(ctx, model.Habit{Name: "Stretch", XP: 5}); err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := tr.AddHabit(ctx, model.Habit{Name: "Read", XP: 7})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, _ := m.Update(runes("j"))
	m = updated.(Model)
	if m.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.Cursor)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = updated.(Model)

	doc := tr.Snapshot()
	if !doc.Log.Get(tr.Today(), second.ID).Truthy() {
		t.Fatal("expected selected habit to be completed")
	}
	if doc.Log.Get(tr.Today(), 1).Truthy() {
		t.Fatal("expected first habit untouched")
	}
	if doc.Progress.XP != 7 {
		t.Fatalf("unexpected xp: %d", doc.Progress.XP)
	}

	updated, _ = m.Update(runes("u"))
	m = updated.(Model)
	if tr.Snapshot().Log.Get(tr.Today(), second.ID).Truthy() {
		t.Fatal("expected undo to clear completion")
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error: %+v", m.Status)
	}
}

func TestCountKeysOnTaskReportError(t *testing.T) {
	m, tr, _ := newTestModel(t, 8, 0)
	if _, err := tr.AddTask(context.Background(), model.Task{Name: "Call", XP: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	updated, _ := m.Update(runes("2"))
	m = updated.(Model)
	updated, _ = m.Update(runes("+"))
	m = updated.(Model)
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestHeartbeatRaisesAlarmAndDismiss(t *testing.T) {
	m, tr, clk := newTestModel(t, 8, 59)
	if _, err := tr.AddHabit(context.Background(), model.Habit{Name: "Stretch", ReminderTime: "09:00", XP: 5}); err != nil {
		t.Fatalf("add: %v", err)
	}

	clk.Set(9, 0)
	updated, _ := m.Update(HeartbeatMsg{At: clk.Now()})
	m = updated.(Model)
	if len(m.ReminderLog) != 1 || !m.ReminderLog[0].IsAlarm() {
		t.Fatalf("expected one alarm in log, got %+v", m.ReminderLog)
	}
	if !strings.Contains(m.View(), "ALARM 09:00") {
		t.Fatalf("expected alarm banner in view: %q", m.View())
	}

	updated, _ = m.Update(HeartbeatMsg{At: clk.Now()})
	m = updated.(Model)
	if len(m.ReminderLog) != 1 {
		t.Fatalf("same minute must not fire again, got %d", len(m.ReminderLog))
	}

	updated, _ = m.Update(runes("x"))
	m = updated.(Model)
	if _, ok := tr.ActiveAlarm(); ok {
		t.Fatal("expected alarm to be dismissed")
	}
	if m.Status.Text != "alarm dismissed" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestHeartbeatInQuietHours(t *testing.T) {
	m, tr, clk := newTestModel(t, 8, 59)
	ctx := context.Background()
	if _, err := tr.AddHabit(ctx, model.Habit{Name: "Stretch", ReminderTime: "09:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tr.SetQuietWindow(ctx, &model.QuietWindow{Start: "08:00", End: "10:00"}); err != nil {
		t.Fatalf("quiet: %v", err)
	}

	clk.Set(9, 0)
	updated, _ := m.Update(HeartbeatMsg{At: clk.Now()})
	m = updated.(Model)
	if _, ok := tr.ActiveAlarm(); ok {
		t.Fatal("expected no alarm during quiet hours")
	}
	if !strings.Contains(m.Status.Text, "silenced by quiet hours") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

type deniedNotifier struct{}

func (deniedNotifier) Notify(context.Context, notify.Request) error {
	return notify.ErrPermissionDenied
}

func TestLateToastIsClearedOnNextHeartbeat(t *testing.T) {
	clk := &testClock{now: time.Date(2024, 5, 6, 8, 59, 0, 0, time.Local)}
	tr := tracker.New(tracker.Options{Clock: clk, Notifier: deniedNotifier{}})
	t.Cleanup(tr.Close)
	m := NewModel(Options{Tracker: tr})
	if _, err := tr.AddHabit(context.Background(), model.Habit{Name: "Stretch", ReminderTime: "09:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	clk.Set(9, 0)
	updated, _ := m.Update(HeartbeatMsg{At: clk.Now()})
	m = updated.(Model)

	deadline := time.Now().Add(2 * time.Second)
	for tr.Toast() == "" {
		if time.Now().After(deadline) {
			t.Fatal("expected permission toast from notification delivery")
		}
		time.Sleep(5 * time.Millisecond)
	}

	updated, _ = m.Update(HeartbeatMsg{At: clk.Now()})
	m = updated.(Model)
	if m.toastSeen == 0 || m.toastSeen != tr.ToastSeq() {
		t.Fatalf("expected a clear scheduled for toast %d, saw %d", tr.ToastSeq(), m.toastSeen)
	}

	updated, _ = m.Update(ClearToastMsg{Seq: m.toastSeen - 1})
	m = updated.(Model)
	if tr.Toast() == "" {
		t.Fatal("stale clear must not remove a newer toast")
	}
	updated, _ = m.Update(ClearToastMsg{Seq: m.toastSeen})
	m = updated.(Model)
	if tr.Toast() != "" {
		t.Fatalf("expected toast cleared, got %q", tr.Toast())
	}
}

func TestRemoteActionCompletesTask(t *testing.T) {
	m, tr, _ := newTestModel(t, 8, 0)
	task, err := tr.AddTask(context.Background(), model.Task{Name: "Call", XP: 20})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, _ := m.Update(RemoteActionMsg{Action: remote.Action{
		Action: remote.ActionComplete,
		Kind:   model.ItemTask,
		ItemID: task.ID,
		Source: "http",
	}})
	m = updated.(Model)
	if m.Status.IsError || !strings.Contains(m.Status.Text, "remote complete") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if !tr.Snapshot().Tasks[0].Done {
		t.Fatal("expected task to be done")
	}

	updated, _ = m.Update(RemoteActionMsg{Action: remote.Action{Action: "snooze"}})
	m = updated.(Model)
	if !m.Status.IsError {
		t.Fatalf("expected invalid action error, got %+v", m.Status)
	}
}

func TestPaletteExportImport(t *testing.T) {
	m, tr, _ := newTestModel(t, 8, 0)
	path := filepath.Join(t.TempDir(), "backup.json")

	m = runPalette(t, m, "task Call xp:5")
	m = runPalette(t, m, "export "+path)
	if m.Status.IsError {
		t.Fatalf("export failed: %+v", m.Status)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected export file: %v", err)
	}

	if err := tr.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	m = runPalette(t, m, "import "+path)
	if m.Status.IsError {
		t.Fatalf("import failed: %+v", m.Status)
	}
	if got := tr.Snapshot().Tasks; len(got) != 1 || got[0].Name != "Call" {
		t.Fatalf("unexpected tasks after import: %+v", got)
	}
}

func TestPaletteEscapeCloses(t *testing.T) {
	m, _, _ := newTestModel(t, 8, 0)
	updated, _ := m.Update(runes("/"))
	m = updated.(Model)
	updated, _ = m.Update(runes("done"))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.Palette.Active || m.commandInput.Value() != "" {
		t.Fatal("expected palette closed and cleared")
	}
}
