package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/streakd/internal/views"
)

const helpMarkdown = `# Commands

- ` + "`habit <name> at:HH:MM every:N xp:N target:N cat:ID`" + `
- ` + "`task <name> at:HH:MM every:N xp:N`" + `
- ` + "`done|undo|delete <id>`" + ` or ` + "`done habit <id>`" + `
- ` + "`inc|dec <id> [n]`" + `
- ` + "`quiet HH:MM HH:MM`" + ` or ` + "`quiet off`" + `
- ` + "`sound on|off`" + `, ` + "`dismiss`" + `, ` + "`recalc`" + `
- ` + "`export <file>`" + `, ` + "`import <file>`" + `
`

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Markdown: m.helpViewport.View(),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Habits, Action: "switch to Habits"},
		{Key: m.Keys.Tasks, Action: "switch to Tasks"},
		{Key: m.Keys.Progress, Action: "switch to Progress"},
		{Key: "/", Action: "open command palette"},
		{Key: "x", Action: "dismiss alarm"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewHabits:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "complete habit"},
			{Key: "u", Action: "undo today"},
			{Key: "+/-", Action: "add/remove one unit"},
			{Key: "d", Action: "delete habit"},
		}
	case ViewTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "complete task"},
			{Key: "u", Action: "reopen task"},
			{Key: "d", Action: "delete task"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
