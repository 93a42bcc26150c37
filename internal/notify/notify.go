// Package notify delivers reminder notifications and audio cues to the
// desktop. Delivery is best effort: callers log failures and move on.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/remote"
)

var (
	ErrUnsupported      = errors.New("notify: not supported on this platform")
	ErrPermissionDenied = errors.New("notify: permission denied")
)

type Request struct {
	TriggerID string
	Title     string
	Body      string
	IsAlarm   bool
	Ref       model.Ref
}

type Notifier interface {
	Notify(ctx context.Context, req Request) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Request) error { return nil }

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecNotifier shells out to notify-send on Linux and osascript on macOS.
// With Actions set and a Sink, Linux notifications carry complete and
// dismiss buttons and block until the user picks one or closes the popup.
type ExecNotifier struct {
	Actions bool
	Sink    remote.Poster

	goos     string
	run      Runner
	lookPath func(string) (string, error)
}

func NewExecNotifier(actions bool, sink remote.Poster) *ExecNotifier {
	return &ExecNotifier{
		Actions:  actions,
		Sink:     sink,
		goos:     runtime.GOOS,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func (n *ExecNotifier) Notify(ctx context.Context, req Request) error {
	switch n.goos {
	case "linux":
		return n.notifyLinux(ctx, req)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(req.Body), escapeAppleScript(req.Title))
		if req.IsAlarm {
			script += ` sound name "Glass"`
		}
		_, err := n.run(ctx, "osascript", "-e", script)
		return classify(err)
	default:
		return ErrUnsupported
	}
}

func (n *ExecNotifier) notifyLinux(ctx context.Context, req Request) error {
	if _, err := n.lookPath("notify-send"); err != nil {
		return ErrUnsupported
	}
	args := []string{"--app-name=streakd"}
	if req.IsAlarm {
		args = append(args, "--urgency=critical")
	}
	withActions := n.Actions && n.Sink != nil && req.Ref.Kind.IsValid()
	if withActions {
		args = append(args,
			"--action="+string(remote.ActionComplete)+"=Complete",
			"--action="+string(remote.ActionDismiss)+"=Dismiss",
			"--wait",
		)
	}
	args = append(args, req.Title, req.Body)

	out, err := n.run(ctx, "notify-send", args...)
	if err != nil {
		return classify(err)
	}
	if !withActions {
		return nil
	}
	chosen := strings.TrimSpace(string(out))
	if chosen == "" {
		return nil
	}
	kind, err := remote.ParseActionKind(chosen)
	if err != nil {
		return nil
	}
	return n.Sink.Post(remote.Action{
		Action: kind,
		Kind:   req.Ref.Kind,
		ItemID: req.Ref.ID,
		Source: "notification",
	})
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return ErrUnsupported
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not authorized") || strings.Contains(msg, "not allowed") || strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
