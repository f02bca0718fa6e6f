// Package typewriter contains the domain logic for text effects: the
// EffectConfig definition and the Effect runtime state machine that types
// and erases characters on a Container.
//
// Maintenance notes:
//   - Mutable fields (state, paused, stopped) are accessed by two goroutines:
//     the effect loop and whoever holds the Handle. They are protected by a
//     mutex; reads by the loop happen only between discrete character steps.
//   - The loop never polls. Pausing parks it on a channel gate, stopping
//     cancels the loop context, so the worst-case stop latency is one
//     per-character delay.
//   - An Effect runs at most once. Replaying a config means calling Run
//     again; the old Handle stays valid but all its mutators are no-ops.
package typewriter

import (
	"context"
	"sync"
	"time"
)

// Container is the text-bearing surface an effect mutates. Implementations
// must tolerate calls from the effect goroutine.
type Container interface {
	Text() string
	SetText(string)
	ShowCursor()
	HideCursor()
	CursorActive() bool
	SetBlinkPeriod(time.Duration)
	ClearBlinkPeriod()
}

// Locator resolves a config's Target to a Container. An absent target is a
// legitimate caller mistake, not an error: the effect silently skips.
type Locator interface {
	Find(id string) (Container, bool)
}

// Effect is the runtime state for one invocation of a typewriter sequence.
type Effect struct {
	cfg    EffectConfig
	target Container

	mu         sync.RWMutex
	state      State
	paused     bool
	stopped    bool
	terminated bool

	gate   *pauseGate
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	ownsCursor bool
}

// Snapshot is an atomic view of the effect fields the UI needs to render a
// consistent panel state.
type Snapshot struct {
	State   State
	Paused  bool
	Stopped bool
}

// Run starts the configured sequence on the container resolved through the
// locator and returns a control handle immediately. The sequence itself runs
// as a detached goroutine; Handle.Done reports completion. If the target
// cannot be found the returned handle is already done and nothing is mutated.
func Run(loc Locator, cfg EffectConfig) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Effect{
		cfg:    cfg,
		state:  StateRunning,
		gate:   newPauseGate(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	target, ok := loc.Find(cfg.Target)
	if !ok {
		e.mu.Lock()
		e.state = StateDone
		e.terminated = true
		e.mu.Unlock()
		cancel()
		close(e.done)
		return &Handle{effect: e}
	}
	e.target = target

	go e.run()
	return &Handle{effect: e}
}

func (e *Effect) run() {
	defer e.finish()

	if e.cfg.Cursor && !e.target.CursorActive() {
		e.target.ShowCursor()
		e.target.SetBlinkPeriod(e.blinkPeriod())
		e.ownsCursor = true
	}

	e.wait(msToDuration(e.cfg.DelayStartMS))

	for {
		if e.IsStopped() {
			break
		}

		if e.cfg.EraseOnly {
			// Only removes whatever the container currently holds; later
			// loop iterations run over empty content and erase nothing.
			e.eraseAll()
			if !e.cfg.Loop || e.IsStopped() {
				break
			}
			e.wait(msToDuration(e.cfg.DelayEndMS))
			continue
		}

		e.target.SetText(e.cfg.InitialText)
		e.typeText()
		if e.IsStopped() {
			break
		}
		e.wait(msToDuration(e.cfg.DelayEndMS))
		if e.cfg.Erase {
			e.eraseAll()
		}
		if !e.cfg.Loop || e.IsStopped() {
			break
		}
		e.wait(msToDuration(e.cfg.DelayEndMS))
	}

	if e.ownsCursor {
		e.target.HideCursor()
		e.target.ClearBlinkPeriod()
	}
}

// typeText appends one rune of the configured text per step.
func (e *Effect) typeText() {
	speed := msToDuration(e.cfg.SpeedMS)
	for _, r := range e.cfg.Text {
		if !e.checkpoint() {
			return
		}
		e.target.SetText(e.target.Text() + string(r))
		e.wait(speed)
	}
}

// eraseAll removes one rune per step until the container is empty.
func (e *Effect) eraseAll() {
	speed := msToDuration(e.cfg.SpeedMS)
	for {
		if !e.checkpoint() {
			return
		}
		current := e.target.Text()
		if current == "" {
			return
		}
		e.target.SetText(trimLastRune(current))
		e.wait(speed)
	}
}

// checkpoint parks while paused and reports whether the loop may take
// another character step.
func (e *Effect) checkpoint() bool {
	e.gate.wait(e.ctx)
	return !e.IsStopped()
}

// wait sleeps for d unless the effect is stopped first.
func (e *Effect) wait(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-e.ctx.Done():
	}
}

func (e *Effect) finish() {
	e.mu.Lock()
	e.terminated = true
	if e.stopped {
		e.state = StateStopped
	} else {
		e.state = StateDone
	}
	e.mu.Unlock()

	e.cancel()

	// Callback runs before Done is signaled so that Done means the whole
	// sequence, cursor cleanup included, has completed.
	if e.cfg.OnComplete != nil {
		e.cfg.OnComplete()
	}
	close(e.done)
}

func (e *Effect) blinkPeriod() time.Duration {
	if !e.cfg.BlinkCursor {
		return 0
	}
	return msToDuration(e.cfg.BlinkPeriodMS)
}

// IsStopped reports whether Stop has taken effect. Monotonic: once true it
// never reverts.
func (e *Effect) IsStopped() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stopped
}

// IsPaused reports whether the effect is parked at a character boundary.
func (e *Effect) IsPaused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

// GetSnapshot returns a consistent snapshot of the effect's state for UI use.
func (e *Effect) GetSnapshot() Snapshot {
	e.mu.RLock()
	snap := Snapshot{
		State:   e.state,
		Paused:  e.paused,
		Stopped: e.stopped,
	}
	e.mu.RUnlock()
	return snap
}

func (e *Effect) pause() {
	e.mu.Lock()
	if e.paused || e.stopped || e.terminated {
		e.mu.Unlock()
		return
	}
	e.paused = true
	e.state = StatePaused
	// Gate transition happens under the effect lock so the flag and the
	// gate can never disagree when Pause and Resume race.
	e.gate.pause()
	e.mu.Unlock()
}

func (e *Effect) resume() {
	e.mu.Lock()
	if !e.paused || e.stopped || e.terminated {
		e.mu.Unlock()
		return
	}
	e.paused = false
	e.state = StateRunning
	e.gate.resume()
	e.mu.Unlock()
}

func (e *Effect) stop() {
	e.mu.Lock()
	if e.stopped || e.terminated {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.paused = false
	e.mu.Unlock()

	// Canceling the context releases both a parked pause gate and any
	// in-flight delay, so a paused effect can still be torn down.
	e.cancel()
}

func msToDuration(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
