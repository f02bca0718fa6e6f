package typewriter

import (
	"context"
	"sync"
)

// pauseGate blocks the effect loop between character steps while paused.
// The channel is closed while the gate is open; pausing swaps in an open
// (unclosed) channel so waiters block until resume closes it again.
type pauseGate struct {
	mu     sync.Mutex
	paused bool
	ch     chan struct{}
}

func newPauseGate() *pauseGate {
	ch := make(chan struct{})
	close(ch) // start unpaused
	return &pauseGate{ch: ch}
}

// wait returns once the gate is open or the context is canceled.
func (g *pauseGate) wait(ctx context.Context) {
	g.mu.Lock()
	ch := g.ch
	g.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (g *pauseGate) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		return
	}
	g.paused = true
	g.ch = make(chan struct{})
}

func (g *pauseGate) resume() {
	g.mu.Lock()
	if !g.paused {
		g.mu.Unlock()
		return
	}
	g.paused = false
	ch := g.ch
	g.mu.Unlock()

	close(ch) // release all waiters
}
