// Package remote carries completion and dismissal requests that originate
// outside the key-handling loop (notification buttons, the local HTTP
// endpoint, CLI) into the tracker.
package remote

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sandeepkv93/streakd/internal/model"
)

var (
	ErrInvalidAction = errors.New("remote: invalid action")
	ErrInboxFull     = errors.New("remote: inbox full")
	ErrInboxClosed   = errors.New("remote: inbox closed")
)

type ActionKind string

const (
	ActionComplete ActionKind = "complete"
	ActionDismiss  ActionKind = "dismiss"
)

func ParseActionKind(raw string) (ActionKind, error) {
	k := ActionKind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case ActionComplete, ActionDismiss:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
}

// Action is a request to complete or dismiss one item. Dismiss only needs
// the action; Kind and ItemID are required for complete.
type Action struct {
	Action ActionKind     `json:"action"`
	Kind   model.ItemKind `json:"kind,omitempty"`
	ItemID int64          `json:"id,omitempty"`
	Source string         `json:"source,omitempty"`
}

func (a Action) Ref() model.Ref {
	return model.Ref{Kind: a.Kind, ID: a.ItemID}
}

func (a Action) Validate() error {
	if _, err := ParseActionKind(string(a.Action)); err != nil {
		return err
	}
	if a.Action == ActionDismiss {
		return nil
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidAction, model.ErrInvalidItemKind)
	}
	if a.ItemID <= 0 {
		return fmt.Errorf("%w: item id is required", ErrInvalidAction)
	}
	return nil
}

// Inbox is a buffered queue of validated actions. Post never blocks.
type Inbox struct {
	mu      sync.RWMutex
	ch      chan Action
	closed  bool
	dropped uint64
}

func NewInbox(bufferSize int) *Inbox {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Inbox{ch: make(chan Action, bufferSize)}
}

func (in *Inbox) C() <-chan Action {
	return in.ch
}

func (in *Inbox) Post(a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if in.closed {
		return ErrInboxClosed
	}
	select {
	case in.ch <- a:
		return nil
	default:
		atomic.AddUint64(&in.dropped, 1)
		return ErrInboxFull
	}
}

func (in *Inbox) Dropped() uint64 {
	return atomic.LoadUint64(&in.dropped)
}

func (in *Inbox) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.closed = true
	close(in.ch)
}
