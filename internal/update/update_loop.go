package update

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/remote"
	"github.com/sandeepkv93/streakd/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Heartbeat != nil {
		cmds = append(cmds, waitForHeartbeatCmd(m.Heartbeat.C()))
	}
	if m.Inbox != nil {
		cmds = append(cmds, waitForRemoteCmd(m.Inbox.C()))
	}
	return tea.Batch(cmds...)
}

func waitForHeartbeatCmd(ch <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		at, ok := <-ch
		if !ok {
			return nil
		}
		return HeartbeatMsg{At: at}
	}
}

func waitForRemoteCmd(ch <-chan remote.Action) tea.Cmd {
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return RemoteActionMsg{Action: a}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Habits:
			return m.switchView(ViewHabits), nil
		case m.Keys.Tasks:
			return m.switchView(ViewTasks), nil
		case m.Keys.Progress:
			return m.switchView(ViewProgress), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "x":
			if _, ok := m.Tracker.ActiveAlarm(); ok {
				m.Tracker.Dismiss()
				m.Status = StatusBar{Text: "alarm dismissed", IsError: false}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.CurrentView == ViewHabits || m.CurrentView == ViewTasks {
			return m.handleItemKey(typed)
		}
		if m.CurrentView == ViewProgress {
			var cmd tea.Cmd
			m.helpViewport, cmd = m.helpViewport.Update(typed)
			return m, cmd
		}
	case spinner.TickMsg:
		if _, ok := m.Tracker.ActiveAlarm(); ok {
			var cmd tea.Cmd
			m.alarmSpinner, cmd = m.alarmSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m = m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		return m.setStatus(typed.Text, typed.IsError), nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case ClearToastMsg:
		m.Tracker.ClearToastIf(typed.Seq)
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", "error", typed.Err)
		}
		return m, nil
	case HeartbeatMsg:
		return m.onHeartbeat()
	case RemoteActionMsg:
		return m.onRemoteAction(typed.Action)
	}

	return m, nil
}

func (m Model) onHeartbeat() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.Heartbeat != nil {
		cmds = append(cmds, waitForHeartbeatCmd(m.Heartbeat.C()))
	}
	res, ok := m.Tracker.Tick()
	if ok && len(res.Triggers) > 0 {
		m.ReminderLog = append(m.ReminderLog, res.Triggers...)
		if len(m.ReminderLog) > reminderLogSize {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogSize:]
		}
		if res.Quiet {
			m.Status = StatusBar{Text: fmt.Sprintf("%d reminder(s) silenced by quiet hours", len(res.Triggers))}
		} else if res.HasAlarm() {
			cmds = append(cmds, m.alarmSpinner.Tick)
		}
	}
	m, clearCmd := m.watchToast()
	cmds = append(cmds, clearCmd)
	return m, tea.Batch(cmds...)
}

// watchToast schedules a clear for any toast set since the last check.
// Notification failures can set one after Tick has returned.
func (m Model) watchToast() (Model, tea.Cmd) {
	seq := m.Tracker.ToastSeq()
	if seq == m.toastSeen {
		return m, nil
	}
	m.toastSeen = seq
	return m, tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return ClearToastMsg{Seq: seq} })
}

func (m Model) onRemoteAction(a remote.Action) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.Inbox != nil {
		next = waitForRemoteCmd(m.Inbox.C())
	}
	if err := m.Tracker.HandleRemote(context.Background(), a); err != nil {
		return m.setStatus(fmt.Sprintf("remote %s failed: %v", a.Action, err), true), next
	}
	return m.setStatus(fmt.Sprintf("remote %s: %s", a.Action, a.Ref()), false), next
}

func (m Model) handleItemKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleItems()
	if m.Cursor >= len(items) && len(items) > 0 {
		m.Cursor = len(items) - 1
	}
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(items)-1 {
			m.Cursor++
		}
		return m, nil
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	}

	it, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	ctx := context.Background()
	ref := it.Ref()
	var err error
	var done string
	switch msg.String() {
	case " ", "enter":
		err = m.Tracker.Complete(ctx, ref)
		done = "completed " + it.Label()
	case "u":
		err = m.Tracker.Undo(ctx, ref)
		done = "undid " + it.Label()
	case "+", "=", "-":
		if ref.Kind != model.ItemHabit {
			return m.setStatus("tasks have no count", true), nil
		}
		if msg.String() == "-" {
			err = m.Tracker.Decrement(ctx, ref.ID, 1)
			done = it.Label() + " -1"
		} else {
			err = m.Tracker.Increment(ctx, ref.ID, 1)
			done = it.Label() + " +1"
		}
	case "d":
		err = m.Tracker.Delete(ctx, ref)
		done = "deleted " + it.Label()
	default:
		return m, nil
	}
	if err != nil {
		return m.setStatus(err.Error(), true), nil
	}
	return m.setStatus(done, false), nil
}

func (m Model) switchView(v View) Model {
	if m.CurrentView != v {
		m.Cursor = 0
	}
	m.CurrentView = v
	return m
}

func (m Model) setStatus(text string, isErr bool) Model {
	m.Status = StatusBar{Text: text, IsError: isErr}
	level := slog.LevelInfo
	if isErr {
		level = slog.LevelWarn
	}
	m.logger.Log(context.Background(), level, "status", "text", text, "level", levelFromError(isErr))
	return m
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewHabits, ViewTasks:
		leftPane = m.renderItemsView()
		rightPane = joinSections(m.renderItemDetail(), m.renderCommandPalette(), m.renderHelpIfVisible())
	case ViewProgress:
		leftPane = m.renderProgressView()
		rightPane = joinSections(m.renderReminderLog(), m.renderCommandPalette(), m.renderHelpIfVisible())
	}

	p := m.Tracker.Progress()
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("streakd | view: %s | level %d | %s", m.CurrentView, p.Level, m.Tracker.Today()),
		Banner:       m.renderAlarmBanner(),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: views.RenderNotification(m.Tracker.Toast()),
		Footer:       fmt.Sprintf("keys: %s habits | %s tasks | %s progress | / cmd | %s help | %s quit", m.Keys.Habits, m.Keys.Tasks, m.Keys.Progress, m.Keys.Help, m.Keys.Quit),
	})
}

func joinSections(sections ...string) string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}

func isKnownView(v View) bool {
	switch v {
	case ViewHabits, ViewTasks, ViewProgress:
		return true
	default:
		return false
	}
}
