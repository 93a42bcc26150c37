package notify

import (
	"io"
	"sync"
	"time"
)

// Player produces the audible cue for a reminder pass. Alarms keep sounding
// until Stop; chimes play once.
type Player interface {
	PlayAlarm()
	PlayChime()
	Stop()
}

type NopPlayer struct{}

func (NopPlayer) PlayAlarm() {}
func (NopPlayer) PlayChime() {}
func (NopPlayer) Stop()      {}

const DefaultBellRepeat = 2 * time.Second

// BellPlayer rings the terminal bell.
type BellPlayer struct {
	mu     sync.Mutex
	w      io.Writer
	repeat time.Duration
	stop   chan struct{}
	done   chan struct{}
}

func NewBellPlayer(w io.Writer, repeat time.Duration) *BellPlayer {
	if repeat <= 0 {
		repeat = DefaultBellRepeat
	}
	return &BellPlayer{w: w, repeat: repeat}
}

func (p *BellPlayer) PlayChime() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ring()
}

// PlayAlarm restarts the repeating bell. A second alarm replaces the first.
func (p *BellPlayer) PlayAlarm() {
	p.mu.Lock()
	prevStop, prevDone := p.stop, p.done
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.ring()
	go p.loop(p.stop, p.done)
	p.mu.Unlock()
	halt(prevStop, prevDone)
}

func (p *BellPlayer) Stop() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()
	halt(stop, done)
}

// halt ends a loop the caller has already detached from the player. The loop
// takes p.mu to ring, so p.mu must not be held here.
func halt(stop, done chan struct{}) {
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Ringing reports whether an alarm loop is active.
func (p *BellPlayer) Ringing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

func (p *BellPlayer) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.repeat)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			p.ring()
			p.mu.Unlock()
		case <-stop:
			return
		}
	}
}

func (p *BellPlayer) ring() {
	if p.w == nil {
		return
	}
	_, _ = p.w.Write([]byte{'\a'})
}
