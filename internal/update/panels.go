package update

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/streakd/internal/leveling"
	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/scheduler"
	"github.com/sandeepkv93/streakd/internal/views"
)

func (m *Model) initBubbleComponents() {
	cols := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Name", Width: 22},
		{Title: "Reminder", Width: 12},
		{Title: "Today", Width: 8},
		{Title: "Streak", Width: 6},
		{Title: "XP", Width: 4},
	}
	m.itemTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.xpProgress = progress.New(progress.WithDefaultGradient())
	m.xpProgress.Width = 36

	m.alarmSpinner = spinner.New()
	m.alarmSpinner.Spinner = spinner.Pulse

	m.helpModel = help.New()
	m.helpViewport = viewport.New(44, 12)
	m.helpViewport.SetContent(views.RenderMarkdown(helpMarkdown))
}

func (m *Model) syncBubbleData() {
	items := m.visibleItems()
	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	doc := m.Tracker.Snapshot()
	today := doc.Log.Day(m.Tracker.Today())
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		streak := "-"
		if h, ok := it.(model.Habit); ok {
			streak = strconv.Itoa(m.Tracker.Streak(h.ID))
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(it.Ref().ID, 10),
			it.Label(),
			scheduleLabel(it.Schedule()),
			todayLabel(it, today),
			streak,
			strconv.Itoa(it.Reward()),
		})
	}
	m.itemTable.SetRows(rows)
	if len(rows) > 0 {
		m.itemTable.SetCursor(m.Cursor)
	}
}

// visibleItems lists what the current view shows, in document order.
// Deleted habits stay in the log but are not listed.
func (m Model) visibleItems() []model.Item {
	doc := m.Tracker.Snapshot()
	var out []model.Item
	switch m.CurrentView {
	case ViewHabits:
		for _, h := range doc.Habits {
			if !h.Deleted {
				out = append(out, h)
			}
		}
	case ViewTasks:
		for _, t := range doc.Tasks {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) selectedItem() (model.Item, bool) {
	items := m.visibleItems()
	if m.Cursor < 0 || m.Cursor >= len(items) {
		return nil, false
	}
	return items[m.Cursor], true
}

func (m Model) renderItemsView() string {
	return views.RenderItemsPanel(views.ItemsPanelData{
		Title:     string(m.CurrentView),
		TableView: m.itemTable.View(),
		Empty:     len(m.visibleItems()) == 0,
	})
}

func (m Model) renderItemDetail() string {
	it, ok := m.selectedItem()
	if !ok {
		return views.RenderItemDetail(views.ItemDetailData{})
	}
	doc := m.Tracker.Snapshot()
	data := views.ItemDetailData{
		Label:    it.Label(),
		Kind:     string(it.Ref().Kind),
		Schedule: scheduleLabel(it.Schedule()),
		Today:    todayLabel(it, doc.Log.Day(m.Tracker.Today())),
		Reward:   it.Reward(),
	}
	if h, ok := it.(model.Habit); ok {
		data.Streak = m.Tracker.Streak(h.ID)
		data.Longest = m.Tracker.LongestStreak(h.ID)
		data.Category = categoryName(doc.Categories, h.CategoryID)
		if h.IsNumeric() {
			data.Kind = fmt.Sprintf("habit (numeric, target %d)", h.EffectiveTarget())
		}
	}
	return views.RenderItemDetail(data)
}

func (m Model) renderProgressView() string {
	doc := m.Tracker.Snapshot()
	p := doc.Progress
	threshold := leveling.Threshold(p.Level)
	data := views.ProgressPanelData{
		Level:        p.Level,
		XP:           p.XP,
		Threshold:    threshold,
		ProgressView: m.xpProgress.ViewAs(float64(p.XP) / float64(threshold)),
		Sound:        doc.Settings.Sound,
	}
	if w := doc.Settings.QuietWindow; w != nil {
		if start, end, ok := w.Bounds(); ok {
			data.Quiet = model.FormatClockTime(start) + "-" + model.FormatClockTime(end)
			data.QuietActive = scheduler.QuietActive(w, m.Tracker.Minute())
		}
	}
	for _, h := range doc.Habits {
		if h.Deleted {
			continue
		}
		data.TopStreaks = append(data.TopStreaks, views.StreakLine{
			Name:    h.Name,
			Current: m.Tracker.Streak(h.ID),
			Longest: m.Tracker.LongestStreak(h.ID),
		})
	}
	sort.SliceStable(data.TopStreaks, func(i, j int) bool {
		return data.TopStreaks[i].Current > data.TopStreaks[j].Current
	})
	if len(data.TopStreaks) > 5 {
		data.TopStreaks = data.TopStreaks[:5]
	}
	return views.RenderProgressPanel(data)
}

func (m Model) renderReminderLog() string {
	lines := make([]views.ReminderLine, 0, len(m.ReminderLog))
	for i := len(m.ReminderLog) - 1; i >= 0 && len(lines) < 8; i-- {
		tr := m.ReminderLog[i]
		lines = append(lines, views.ReminderLine{
			At:   model.FormatClockTime(tr.Minute),
			Kind: string(tr.Kind),
			Name: tr.Name,
		})
	}
	return views.RenderReminderLog(lines)
}

func (m Model) renderAlarmBanner() string {
	alarm, ok := m.Tracker.ActiveAlarm()
	if !ok {
		return ""
	}
	return m.alarmSpinner.View() + " " + views.RenderAlarmBanner(alarm.Name, model.FormatClockTime(alarm.Minute))
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value())
}
