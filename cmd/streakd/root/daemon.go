package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/streakd/internal/scheduler"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run reminders and the local action endpoint without the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), runtimeOptions{logStderr: true, reminders: true})
			if err != nil {
				return err
			}
			defer cleanup()
			return runDaemon(cmd.Context(), a)
		},
	}
	return cmd
}

// runDaemon drives the tracker from the heartbeat and the remote inbox on a
// single goroutine until ctx ends.
func runDaemon(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.serveRemote(ctx)

	heartbeat := scheduler.NewHeartbeat(a.cfg.HeartbeatInterval, a.cfg.HeartbeatBuffer)
	heartbeat.Start()
	defer heartbeat.Stop()

	a.logger.Info("daemon started", "remote_addr", a.cfg.RemoteAddr, "heartbeat", a.cfg.HeartbeatInterval)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("daemon stopping", "dropped_ticks", heartbeat.Dropped(), "dropped_actions", a.inbox.Dropped())
			return nil
		case _, ok := <-heartbeat.C():
			if !ok {
				return nil
			}
			a.tracker.Tick()
		case action, ok := <-a.inbox.C():
			if !ok {
				return nil
			}
			if err := a.tracker.HandleRemote(ctx, action); err != nil {
				a.logger.Warn("remote action failed", "action", action.Action, "id", action.ItemID, "error", err)
			}
		}
	}
}
