package notify

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/streakd/internal/model"
	"github.com/sandeepkv93/streakd/internal/remote"
)

type recordedCall struct {
	name string
	args []string
}

func fakeNotifier(goos string, out string, runErr error) (*ExecNotifier, *[]recordedCall) {
	calls := &[]recordedCall{}
	n := NewExecNotifier(false, nil)
	n.goos = goos
	n.lookPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	n.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return []byte(out), runErr
	}
	return n, calls
}

func TestExecNotifierLinuxPlain(t *testing.T) {
	n, calls := fakeNotifier("linux", "", nil)
	err := n.Notify(context.Background(), Request{Title: "Alarm", Body: "stretch", IsAlarm: true})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].name != "notify-send" {
		t.Fatalf("unexpected calls: %+v", *calls)
	}
	args := strings.Join((*calls)[0].args, " ")
	if !strings.Contains(args, "--urgency=critical") || strings.Contains(args, "--wait") {
		t.Fatalf("unexpected args: %s", args)
	}
}

func TestExecNotifierLinuxActionPostsToInbox(t *testing.T) {
	inbox := remote.NewInbox(2)
	n, calls := fakeNotifier("linux", "complete\n", nil)
	n.Actions = true
	n.Sink = inbox

	ref := model.Ref{Kind: model.ItemHabit, ID: 4}
	if err := n.Notify(context.Background(), Request{Title: "t", Body: "b", Ref: ref}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(strings.Join((*calls)[0].args, " "), "--wait") {
		t.Fatalf("expected --wait in args: %v", (*calls)[0].args)
	}
	select {
	case a := <-inbox.C():
		if a.Action != remote.ActionComplete || a.Ref() != ref || a.Source != "notification" {
			t.Fatalf("unexpected action: %+v", a)
		}
	default:
		t.Fatal("expected action in inbox")
	}
}

func TestExecNotifierLinuxClosedPopupPostsNothing(t *testing.T) {
	inbox := remote.NewInbox(2)
	n, _ := fakeNotifier("linux", "", nil)
	n.Actions = true
	n.Sink = inbox

	if err := n.Notify(context.Background(), Request{Ref: model.Ref{Kind: model.ItemTask, ID: 1}}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	select {
	case a := <-inbox.C():
		t.Fatalf("unexpected action: %+v", a)
	default:
	}
}

func TestExecNotifierErrors(t *testing.T) {
	n, _ := fakeNotifier("plan9", "", nil)
	if err := n.Notify(context.Background(), Request{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	n, _ = fakeNotifier("linux", "", nil)
	n.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	if err := n.Notify(context.Background(), Request{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported without notify-send, got %v", err)
	}

	n, _ = fakeNotifier("darwin", "", errors.New("osascript: exit status 1: Not authorized to send Apple events"))
	if err := n.Notify(context.Background(), Request{Title: `say "hi"`}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	n, _ = fakeNotifier("linux", "", errors.New("boom"))
	err := n.Notify(context.Background(), Request{})
	if err == nil || errors.Is(err, ErrUnsupported) || errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected plain delivery error, got %v", err)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	if got := escapeAppleScript(`a "b" \c`); got != `a \"b\" \\c` {
		t.Fatalf("unexpected escape: %s", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func TestBellPlayerAlarmRepeatsUntilStopped(t *testing.T) {
	var out syncBuffer
	p := NewBellPlayer(&out, 5*time.Millisecond)

	p.PlayAlarm()
	if !p.Ringing() {
		t.Fatal("expected alarm to be ringing")
	}
	time.Sleep(40 * time.Millisecond)
	p.Stop()
	if p.Ringing() {
		t.Fatal("expected alarm to stop")
	}
	rung := out.Len()
	if rung < 2 {
		t.Fatalf("expected repeated bells, got %d", rung)
	}
	time.Sleep(20 * time.Millisecond)
	if out.Len() != rung {
		t.Fatalf("bell kept ringing after stop: %d -> %d", rung, out.Len())
	}
}

func TestBellPlayerConcurrentAlarmsLeaveOneLoop(t *testing.T) {
	var out syncBuffer
	p := NewBellPlayer(&out, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.PlayAlarm()
		}()
	}
	wg.Wait()
	if !p.Ringing() {
		t.Fatal("expected alarm to be ringing")
	}

	p.Stop()
	rung := out.Len()
	time.Sleep(20 * time.Millisecond)
	if out.Len() != rung {
		t.Fatalf("a replaced alarm loop kept ringing: %d -> %d", rung, out.Len())
	}
}

func TestBellPlayerChimeRingsOnce(t *testing.T) {
	var out syncBuffer
	p := NewBellPlayer(&out, time.Millisecond)
	p.PlayChime()
	p.Stop()
	if out.Len() != 1 || p.Ringing() {
		t.Fatalf("unexpected chime output: %d", out.Len())
	}
}
