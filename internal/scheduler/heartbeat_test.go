package scheduler

import (
	"testing"
	"time"
)

func TestHeartbeatEmitsBeats(t *testing.T) {
	hb := NewHeartbeat(10*time.Millisecond, 8)
	hb.Start()
	defer hb.Stop()

	first := waitBeat(t, hb.C(), time.Second)
	second := waitBeat(t, hb.C(), time.Second)
	if !second.After(first) {
		t.Fatalf("beats out of order: first=%v second=%v", first, second)
	}
}

func TestHeartbeatNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	hb := NewHeartbeat(2*time.Millisecond, 1)
	hb.Start()
	defer hb.Stop()

	time.Sleep(120 * time.Millisecond)
	if hb.Dropped() == 0 {
		t.Fatalf("expected dropped beats > 0, got %d", hb.Dropped())
	}
}

func TestHeartbeatStopClosesChannel(t *testing.T) {
	hb := NewHeartbeat(5*time.Millisecond, 1)
	hb.Start()
	hb.Stop()
	hb.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-hb.C():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after stop")
		}
	}
}

func TestHeartbeatStopWithoutStart(t *testing.T) {
	hb := NewHeartbeat(0, 0)
	if hb.Interval() != DefaultHeartbeatInterval {
		t.Fatalf("unexpected default interval: %v", hb.Interval())
	}
	hb.Stop()
	if _, ok := <-hb.C(); ok {
		t.Fatalf("expected closed channel")
	}
	hb.Start()
}

func waitBeat(t *testing.T, ch <-chan time.Time, timeout time.Duration) time.Time {
	t.Helper()
	select {
	case ts := <-ch:
		return ts
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for beat")
		return time.Time{}
	}
}
