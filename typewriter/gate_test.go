package typewriter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func gateWaitReturns(g *pauseGate, ctx context.Context) chan struct{} {
	released := make(chan struct{})
	go func() {
		g.wait(ctx)
		close(released)
	}()
	return released
}

func TestGateStartsOpen(t *testing.T) {
	g := newPauseGate()

	select {
	case <-gateWaitReturns(g, context.Background()):
	case <-time.After(time.Second):
		t.Fatal("wait blocked on an open gate")
	}
}

func TestGateBlocksWhilePaused(t *testing.T) {
	g := newPauseGate()
	g.pause()

	released := gateWaitReturns(g, context.Background())
	select {
	case <-released:
		t.Fatal("wait returned while the gate was paused")
	case <-time.After(50 * time.Millisecond):
	}

	g.resume()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("resume did not release the waiter")
	}
}

func TestGateRepeatedTransitionsAreIdempotent(t *testing.T) {
	g := newPauseGate()
	g.pause()
	g.pause()
	g.resume()
	g.resume()

	select {
	case <-gateWaitReturns(g, context.Background()):
	case <-time.After(time.Second):
		t.Fatal("gate stuck after repeated pause/resume")
	}
}

func TestGateCancelReleasesPausedWaiter(t *testing.T) {
	g := newPauseGate()
	g.pause()

	ctx, cancel := context.WithCancel(context.Background())
	released := gateWaitReturns(g, ctx)

	cancel()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("context cancel did not release the waiter")
	}
	require.True(t, g.paused, "cancel must not flip the pause flag")
}
