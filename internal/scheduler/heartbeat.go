package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

const DefaultHeartbeatInterval = time.Second

// Heartbeat emits a beat on C every interval. Sends never block: when the
// consumer has not drained the buffer the beat is counted as dropped, which
// is harmless because the evaluator coalesces every minute it skipped.
type Heartbeat struct {
	mu       sync.Mutex
	interval time.Duration
	out      chan time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	dropped  uint64
	sent     uint64
}

func NewHeartbeat(interval time.Duration, bufferSize int) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Heartbeat{
		interval: interval,
		out:      make(chan time.Time, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// C is closed after Stop returns.
func (h *Heartbeat) C() <-chan time.Time {
	return h.out
}

func (h *Heartbeat) Interval() time.Duration {
	return h.interval
}

func (h *Heartbeat) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started || h.stopped {
		return
	}
	h.started = true
	go h.loop()
}

func (h *Heartbeat) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	close(h.stopCh)
	started := h.started
	h.mu.Unlock()
	if started {
		<-h.doneCh
		return
	}
	close(h.out)
}

func (h *Heartbeat) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

func (h *Heartbeat) Sent() uint64 {
	return atomic.LoadUint64(&h.sent)
}

func (h *Heartbeat) loop() {
	defer close(h.doneCh)
	defer close(h.out)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case t := <-ticker.C:
			select {
			case h.out <- t:
				atomic.AddUint64(&h.sent, 1)
			default:
				atomic.AddUint64(&h.dropped, 1)
			}
		case <-h.stopCh:
			return
		}
	}
}
