package typewriter

// Handle is the control surface returned by Run. It lets external code
// pause, resume, or stop an effect in progress. Once the effect loop
// terminates every mutator becomes a no-op; the handle itself stays valid.
type Handle struct {
	effect *Effect
}

// Pause freezes the effect at the next character boundary. No-op if the
// effect is already paused, stopped, or finished.
func (h *Handle) Pause() {
	h.effect.pause()
}

// Resume continues a paused effect at the character step where it froze.
// No-op if the effect is not paused.
func (h *Handle) Resume() {
	h.effect.resume()
}

// Stop halts the effect. The loop exits at its next wait boundary, worst
// case one per-character delay later; cursor cleanup and the completion
// callback still run. Idempotent.
func (h *Handle) Stop() {
	h.effect.stop()
}

// IsPaused reports whether the effect is currently paused.
func (h *Handle) IsPaused() bool {
	return h.effect.IsPaused()
}

// IsStopped reports whether Stop has been requested.
func (h *Handle) IsStopped() bool {
	return h.effect.IsStopped()
}

// Done is closed after the sequence, cursor cleanup and completion callback
// have all finished.
func (h *Handle) Done() <-chan struct{} {
	return h.effect.done
}

// Snapshot returns a consistent view of the effect state for display.
func (h *Handle) Snapshot() Snapshot {
	return h.effect.GetSnapshot()
}
