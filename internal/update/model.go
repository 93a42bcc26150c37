package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/streakd/internal/remote"
	"github.com/sandeepkv93/streakd/internal/scheduler"
	"github.com/sandeepkv93/streakd/internal/tracker"
)

type View string

const (
	ViewHabits   View = "Habits"
	ViewTasks    View = "Tasks"
	ViewProgress View = "Progress"
)

const reminderLogSize = 20

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Habits   string
	Tasks    string
	Progress string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Cursor      int
	Tracker     *tracker.Tracker
	Heartbeat   *scheduler.Heartbeat
	Inbox       *remote.Inbox
	ReminderLog []scheduler.Trigger
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	logger *slog.Logger
	// toastTTL is how long a reminder toast stays on screen.
	toastTTL time.Duration
	// toastSeen is the last toast sequence a clear was scheduled for.
	toastSeen uint64

	itemTable    table.Model
	commandInput textinput.Model
	xpProgress   progress.Model
	alarmSpinner spinner.Model
	helpModel    help.Model
	helpViewport viewport.Model
}

// Options wires the model to the running tracker. Heartbeat and Inbox are
// optional; without them the model only reacts to keys.
type Options struct {
	Tracker   *tracker.Tracker
	Heartbeat *scheduler.Heartbeat
	Inbox     *remote.Inbox
	Logger    *slog.Logger
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

// ClearToastMsg clears the toast identified by Seq unless a newer one
// replaced it.
type ClearToastMsg struct {
	Seq uint64
}

type AppErrorMsg struct {
	Err error
}

// HeartbeatMsg asks the tracker for a reminder pass.
type HeartbeatMsg struct {
	At time.Time
}

type RemoteActionMsg struct {
	Action remote.Action
}

func NewModel(opts Options) Model {
	if opts.Tracker == nil {
		opts.Tracker = tracker.New(tracker.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	m := Model{
		CurrentView: ViewHabits,
		Tracker:     opts.Tracker,
		Heartbeat:   opts.Heartbeat,
		Inbox:       opts.Inbox,
		logger:      opts.Logger,
		toastTTL:    5 * time.Second,
		Keys: GlobalKeyMap{
			Habits:   "1",
			Tasks:    "2",
			Progress: "3",
			Help:     "?",
			Quit:     "q",
		},
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}
