package root

import (
	"context"
	"log/slog"
	"os"

	"github.com/sandeepkv93/streakd/internal/config"
	"github.com/sandeepkv93/streakd/internal/logging"
	"github.com/sandeepkv93/streakd/internal/notify"
	"github.com/sandeepkv93/streakd/internal/remote"
	"github.com/sandeepkv93/streakd/internal/storage"
	"github.com/sandeepkv93/streakd/internal/tracker"
)

type runtimeOptions struct {
	// logStderr sends logs to stderr instead of the configured log file.
	logStderr bool
	// reminders enables desktop notifications and sound.
	reminders bool
}

type app struct {
	cfg     config.Runtime
	logger  *slog.Logger
	tracker *tracker.Tracker
	inbox   *remote.Inbox
	sqlite  *storage.SQLiteStore
}

// openApp loads config, builds the logger and store, and returns a tracker
// holding the persisted document.
func openApp(ctx context.Context, opts runtimeOptions) (*app, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	logOpts := logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel, Format: cfg.LogFormat}
	if opts.logStderr {
		logOpts.Path = ""
		logOpts.Stderr = os.Stderr
	}
	logger, logCloser, err := logging.New(logOpts)
	if err != nil {
		return nil, nil, err
	}

	a := &app{cfg: cfg, logger: logger, inbox: remote.NewInbox(cfg.InboxBuffer)}
	var store storage.DocumentStore
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			_ = logCloser.Close()
			return nil, nil, err
		}
		a.sqlite = s
		store = s
	default:
		store = storage.NewFileStore(cfg.StatePath)
	}

	trOpts := tracker.Options{Store: store, Logger: logger}
	if opts.reminders {
		if cfg.DesktopNotifications {
			trOpts.Notifier = notify.NewExecNotifier(cfg.NotificationActions, a.inbox)
		}
		if cfg.Sound {
			trOpts.Player = notify.NewBellPlayer(os.Stderr, 0)
		}
	}
	a.tracker = tracker.New(trOpts)

	cleanup := func() {
		a.tracker.Close()
		a.inbox.Close()
		if a.sqlite != nil {
			_ = a.sqlite.Close()
		}
		_ = logCloser.Close()
	}
	if err := a.tracker.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Debug("runtime ready", "store", cfg.Store, "remote_addr", cfg.RemoteAddr)
	return a, cleanup, nil
}

// serveRemote runs the local action endpoint until ctx ends. An empty
// address disables it.
func (a *app) serveRemote(ctx context.Context) {
	if a.cfg.RemoteAddr == "" {
		return
	}
	srv := remote.NewServer(a.inbox, a.logger)
	go func() {
		if err := srv.ListenContext(ctx, a.cfg.RemoteAddr); err != nil {
			a.logger.Error("remote server stopped", "addr", a.cfg.RemoteAddr, "error", err)
		}
	}()
}
