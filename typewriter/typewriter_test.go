package typewriter

import (
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

// fakeContainer records every content mutation and cursor call so tests can
// assert the exact observable state sequence.
type fakeContainer struct {
	mu          sync.Mutex
	text        string
	states      []string
	cursorOn    bool
	showCalls   int
	hideCalls   int
	blinkSet    []time.Duration
	blinkCleared bool
}

func (c *fakeContainer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *fakeContainer) SetText(s string) {
	c.mu.Lock()
	c.text = s
	c.states = append(c.states, s)
	c.mu.Unlock()
}

func (c *fakeContainer) ShowCursor() {
	c.mu.Lock()
	c.cursorOn = true
	c.showCalls++
	c.mu.Unlock()
}

func (c *fakeContainer) HideCursor() {
	c.mu.Lock()
	c.cursorOn = false
	c.hideCalls++
	c.mu.Unlock()
}

func (c *fakeContainer) CursorActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursorOn
}

func (c *fakeContainer) SetBlinkPeriod(d time.Duration) {
	c.mu.Lock()
	c.blinkSet = append(c.blinkSet, d)
	c.mu.Unlock()
}

func (c *fakeContainer) ClearBlinkPeriod() {
	c.mu.Lock()
	c.blinkCleared = true
	c.mu.Unlock()
}

func (c *fakeContainer) recordedStates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.states...)
}

func (c *fakeContainer) counts() (show, hide int, cleared bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showCalls, c.hideCalls, c.blinkCleared
}

type fakeLocator map[string]Container

func (l fakeLocator) Find(id string) (Container, bool) {
	c, ok := l[id]
	return c, ok
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("effect did not finish in time")
	}
}

func TestTypeRevealsEachCharacterOnce(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "Hi"})
	waitDone(t, h)

	require.Equal(t, []string{"", "H", "Hi"}, c.recordedStates())
	require.Equal(t, "Hi", c.Text())
	require.False(t, h.IsStopped())
	require.Equal(t, StateDone, h.Snapshot().State)
}

func TestInitialTextIsPrefixed(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "Go", InitialText: "> "})
	waitDone(t, h)

	require.Equal(t, []string{"> ", "> G", "> Go"}, c.recordedStates())
}

func TestEraseReturnsToEmpty(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "héllo", InitialText: "ab", Erase: true})
	waitDone(t, h)

	require.Equal(t, "", c.Text())

	states := c.recordedStates()
	require.Equal(t, "", states[len(states)-1])
	require.Contains(t, states, "abhéllo")
	for _, s := range states {
		require.True(t, utf8.ValidString(s), "state %q is not valid UTF-8", s)
	}
}

func TestEraseOnlyRemovesExistingContent(t *testing.T) {
	c := &fakeContainer{text: "abc"}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "XYZ", EraseOnly: true})
	waitDone(t, h)

	require.Equal(t, []string{"ab", "a", ""}, c.recordedStates())
	require.Equal(t, "", c.Text())
	for _, s := range c.recordedStates() {
		require.NotContains(t, s, "X")
	}
}

func TestEraseOnlyLoopIdlesOnEmptyContent(t *testing.T) {
	c := &fakeContainer{text: "ab"}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", EraseOnly: true, Loop: true, DelayEndMS: 1})

	// The first pass erases everything; later passes find nothing to erase
	// and must not mutate the container again.
	require.Eventually(t, func() bool {
		states := c.recordedStates()
		return len(states) == 2 && states[1] == ""
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, []string{"a", ""}, c.recordedStates())

	h.Stop()
	waitDone(t, h)
	require.True(t, h.IsStopped())
	require.Equal(t, []string{"a", ""}, c.recordedStates())
}

func TestMissingTargetIsSilentSkip(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "nope", Text: "Hi"})

	select {
	case <-h.Done():
	default:
		t.Fatal("handle for a missing target should be done immediately")
	}

	// Mutators on a dead handle must be harmless no-ops.
	h.Pause()
	h.Resume()
	h.Stop()
	require.False(t, h.IsPaused())
	require.False(t, h.IsStopped())
	require.Empty(t, c.recordedStates())
}

func TestLoopRunsUntilStopped(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "ab", SpeedMS: 1, DelayEndMS: 1, Loop: true, Erase: true})

	// Let it cycle a few times.
	require.Eventually(t, func() bool {
		return len(c.recordedStates()) > 10
	}, 2*time.Second, 5*time.Millisecond)

	h.Stop()
	waitDone(t, h)
	require.True(t, h.IsStopped())
	require.Equal(t, StateStopped, h.Snapshot().State)

	n := len(c.recordedStates())
	time.Sleep(50 * time.Millisecond)
	require.Len(t, c.recordedStates(), n, "container mutated after stop completed")
}

func TestPauseFreezesAtCharacterBoundary(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}
	text := strings.Repeat("x", 200)

	h := Run(loc, EffectConfig{Target: "demo", Text: text, SpeedMS: 5})

	require.Eventually(t, func() bool {
		return len(c.recordedStates()) > 3
	}, 2*time.Second, time.Millisecond)

	h.Pause()
	require.True(t, h.IsPaused())

	// Allow the one step that may already be past its checkpoint to land,
	// then verify nothing further moves.
	time.Sleep(30 * time.Millisecond)
	frozen := c.recordedStates()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, frozen, c.recordedStates())

	h.Resume()
	require.False(t, h.IsPaused())

	waitDone(t, h)
	require.Equal(t, text, c.Text())
}

func TestStopIsIdempotentAndResumeWithoutPauseIsNoop(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "abcdef", SpeedMS: 2, Loop: true, Erase: true})

	h.Resume() // not paused, must not disturb the run
	require.False(t, h.IsPaused())

	h.Stop()
	h.Stop()
	waitDone(t, h)
	require.True(t, h.IsStopped())

	// Post-termination mutators are no-ops.
	h.Pause()
	require.False(t, h.IsPaused())
}

func TestCursorActivatedAndCleanedUp(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{
		Target:        "demo",
		Text:          "ok",
		Cursor:        true,
		BlinkCursor:   true,
		BlinkPeriodMS: 250,
	})
	waitDone(t, h)

	show, hide, cleared := c.counts()
	require.Equal(t, 1, show)
	require.Equal(t, 1, hide)
	require.True(t, cleared)
	require.Equal(t, []time.Duration{250 * time.Millisecond}, c.blinkSet)
	require.False(t, c.CursorActive())
}

func TestCursorNotReactivatedWhenAlreadyActive(t *testing.T) {
	c := &fakeContainer{cursorOn: true}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "ok", Cursor: true})
	waitDone(t, h)

	show, hide, cleared := c.counts()
	require.Zero(t, show)
	require.Zero(t, hide, "effect must not tear down a cursor it did not activate")
	require.False(t, cleared)
	require.True(t, c.CursorActive())
}

func TestCursorSolidWhenBlinkDisabled(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: "ok", Cursor: true, BlinkPeriodMS: 250})
	waitDone(t, h)

	// BlinkCursor off: the period is forced to zero regardless of config.
	require.Equal(t, []time.Duration{0}, c.blinkSet)
}

func TestOnCompleteRunsOnceAfterNaturalCompletion(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	calls := make(chan struct{}, 2)
	h := Run(loc, EffectConfig{
		Target:     "demo",
		Text:       "done",
		OnComplete: func() { calls <- struct{}{} },
	})
	waitDone(t, h)

	require.Len(t, calls, 1)
}

func TestOnCompleteRunsWhenStopped(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	calls := make(chan struct{}, 2)
	h := Run(loc, EffectConfig{
		Target:     "demo",
		Text:       "ab",
		SpeedMS:    2,
		Loop:       true,
		Erase:      true,
		OnComplete: func() { calls <- struct{}{} },
	})

	time.Sleep(20 * time.Millisecond)
	h.Stop()
	waitDone(t, h)

	require.Len(t, calls, 1)
}

func TestStoppedWhilePausedStillTerminates(t *testing.T) {
	c := &fakeContainer{}
	loc := fakeLocator{"demo": c}

	h := Run(loc, EffectConfig{Target: "demo", Text: strings.Repeat("y", 100), SpeedMS: 5})

	require.Eventually(t, func() bool {
		return len(c.recordedStates()) > 2
	}, 2*time.Second, time.Millisecond)

	h.Pause()
	h.Stop()
	waitDone(t, h)

	require.True(t, h.IsStopped())
	require.False(t, h.IsPaused())
}
