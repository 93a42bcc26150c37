package views

import (
	"fmt"
	"strings"
)

type ItemsPanelData struct {
	Title     string
	TableView string
	Empty     bool
}

type ItemDetailData struct {
	Label    string
	Kind     string
	Schedule string
	Today    string
	Streak   int
	Longest  int
	Reward   int
	Category string
}

type ProgressPanelData struct {
	Level        int
	XP           int
	Threshold    int
	ProgressView string
	Quiet        string
	QuietActive  bool
	Sound        bool
	TopStreaks   []StreakLine
}

type StreakLine struct {
	Name    string
	Current int
	Longest int
}

type ReminderLine struct {
	At   string
	Kind string
	Name string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
	Markdown    string
}

func RenderItemsPanel(data ItemsPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title) + ":\n")
	b.WriteString("actions: [j/k]move [space]done [u]undo [+/-]count [d]delete\n")
	if data.Empty {
		b.WriteString("(nothing here yet, try /habit or /task)")
		return b.String()
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderItemDetail(data ItemDetailData) string {
	if strings.TrimSpace(data.Label) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("name: %s\n", data.Label))
	b.WriteString(fmt.Sprintf("kind: %s\n", data.Kind))
	if data.Category != "" {
		b.WriteString(fmt.Sprintf("category: %s\n", data.Category))
	}
	b.WriteString(fmt.Sprintf("reminder: %s\n", data.Schedule))
	b.WriteString(fmt.Sprintf("today: %s\n", data.Today))
	b.WriteString(fmt.Sprintf("reward: %d xp\n", data.Reward))
	if data.Kind != "task" {
		b.WriteString(fmt.Sprintf("streak: %d (best %d)", data.Streak, data.Longest))
	}
	return strings.TrimSpace(b.String())
}

func RenderProgressPanel(data ProgressPanelData) string {
	var b strings.Builder
	b.WriteString("progress:\n")
	b.WriteString(fmt.Sprintf("level %d  %d/%d xp\n", data.Level, data.XP, data.Threshold))
	b.WriteString(data.ProgressView + "\n")
	quiet := "off"
	if data.Quiet != "" {
		quiet = data.Quiet
		if data.QuietActive {
			quiet += " (active)"
		}
	}
	b.WriteString(fmt.Sprintf("quiet hours: %s\n", quiet))
	sound := "off"
	if data.Sound {
		sound = "on"
	}
	b.WriteString(fmt.Sprintf("sound: %s\n", sound))
	if len(data.TopStreaks) > 0 {
		b.WriteString("\nstreaks:\n")
		for _, s := range data.TopStreaks {
			b.WriteString(fmt.Sprintf("- %s: %d (best %d)\n", s.Name, s.Current, s.Longest))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderAlarmBanner(name, at string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return fmt.Sprintf("ALARM %s  %s  [space]complete [x]dismiss", at, name)
}

func RenderReminderLog(lines []ReminderLine) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("recent reminders:\n")
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("%s [%s] %s\n", l.At, strings.ToUpper(l.Kind), l.Name))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: %s", body)
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
	if data.Markdown != "" {
		out += "\n\n" + data.Markdown
	}
	return out
}
