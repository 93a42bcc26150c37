package root

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/streakd/internal/scheduler"
	"github.com/sandeepkv93/streakd/internal/update"
)

func runTUI(ctx context.Context) error {
	a, cleanup, err := openApp(ctx, runtimeOptions{reminders: true})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.serveRemote(ctx)

	heartbeat := scheduler.NewHeartbeat(a.cfg.HeartbeatInterval, a.cfg.HeartbeatBuffer)
	heartbeat.Start()
	defer heartbeat.Stop()

	model := update.NewModel(update.Options{
		Tracker:   a.tracker,
		Heartbeat: heartbeat,
		Inbox:     a.inbox,
		Logger:    a.logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	if dropped := heartbeat.Dropped(); dropped > 0 {
		a.logger.Warn("heartbeat ticks dropped", "count", dropped)
	}
	return nil
}
