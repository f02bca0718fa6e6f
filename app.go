// Package main contains the application wiring and the ShowcaseManager which
// coordinates the typewriter effects, audio and the UI. This file centralizes
// the shared application state and the command loop used to serialize effect
// control.
//
// Maintenance notes / tips:
//   - Concurrency model: a single command-loop goroutine (see `commandLoop`)
//     serializes Replay/Pause/Resume/Stop operations, so effect handles only
//     ever have one writer. Each running effect is its own goroutine owned by
//     the typewriter package; a separate `tick` goroutine refreshes widgets
//     for cursor blink. Widgets tolerate concurrent reads via snapshots.
//   - `cmdCh` is a buffered channel used to enqueue commands from the UI. The
//     current implementation drops commands when the channel stays full to
//     avoid blocking the UI.
//   - `entries` is populated during startup and is treated as immutable after
//     `NewShowcaseManager` returns; only each entry's handle field changes at
//     runtime, guarded by the entry mutex.
package main

import (
	"TypeFX/control"
	"TypeFX/i18n"
	"TypeFX/typewriter"
	"TypeFX/ui"
	"context"
	"embed"
	"encoding/json"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	tickInterval  = 100 * time.Millisecond
	chimeFreq     = 880.0
	chimeDuration = 150 * time.Millisecond
)

var chimeSampleRate = beep.SampleRate(44100)

// showcaseEntry binds one effect config to its panel widget and the handle
// of the run currently in flight (nil before the first Replay).
type showcaseEntry struct {
	cfg    *typewriter.EffectConfig
	widget *ui.EffectWidget

	mu     sync.Mutex
	handle *typewriter.Handle
}

func (e *showcaseEntry) currentHandle() *typewriter.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle
}

func (e *showcaseEntry) setHandle(h *typewriter.Handle) {
	e.mu.Lock()
	e.handle = h
	e.mu.Unlock()
	e.widget.SetHandle(h)
}

// widgetRegistry resolves config targets to containers. It implements
// typewriter.Locator; unknown targets report absent, which the effect
// treats as a silent skip.
type widgetRegistry struct {
	mu         sync.RWMutex
	containers map[string]typewriter.Container
}

func newWidgetRegistry() *widgetRegistry {
	return &widgetRegistry{containers: make(map[string]typewriter.Container)}
}

func (r *widgetRegistry) Register(id string, c typewriter.Container) {
	r.mu.Lock()
	r.containers[id] = c
	r.mu.Unlock()
}

func (r *widgetRegistry) Find(id string) (typewriter.Container, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.containers[id]
	return c, ok
}

// ShowcaseManager is the main application struct, holding all state.
type ShowcaseManager struct {
	mainWindow fyne.Window
	entries    []*showcaseEntry
	registry   *widgetRegistry
	cmdCh      chan control.Command
	cmdCtx     context.Context
	cmdCancel  context.CancelFunc

	replayButton *widget.Button
	pauseButton  *widget.Button
	resumeButton *widget.Button
	stopButton   *widget.Button

	audioReady  bool
	speakerLock sync.Mutex
	content     embed.FS // Embedded file system for assets
}

// NewShowcaseManager creates a new application manager.
func NewShowcaseManager(content embed.FS) *ShowcaseManager {
	a := &ShowcaseManager{registry: newWidgetRegistry(), content: content}
	typewriter.LoadEffectConfigs(content)
	log.Printf("Loaded %d effect configs.", len(typewriter.EffectConfigs))
	a.initAudio()

	// Use a larger buffer for the command channel to reduce drops under brief bursts.
	a.cmdCh = make(chan control.Command, 256)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()

	for _, cfg := range typewriter.EffectConfigs {
		w := ui.NewEffectWidget(a, cfg)
		a.registry.Register(cfg.Target, w)
		a.entries = append(a.entries, &showcaseEntry{cfg: cfg, widget: w})
	}

	return a
}

// EnqueueCommand posts a command to the internal command loop.
func (a *ShowcaseManager) EnqueueCommand(cmd control.Command) {
	// Try to enqueue the command but avoid blocking UI indefinitely. If the
	// channel stays full for the configured short timeout, drop and log.
	select {
	case a.cmdCh <- cmd:
	case <-time.After(150 * time.Millisecond):
		log.Printf("EnqueueCommand timeout: dropping command")
	}
}

func (a *ShowcaseManager) commandLoop() {
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			if e := a.entryByName(cmd.Target); e != nil {
				switch cmd.Type {
				case control.CmdReplay:
					a.startEntry(e)
				case control.CmdPause:
					if h := e.currentHandle(); h != nil {
						h.Pause()
					}
				case control.CmdResume:
					if h := e.currentHandle(); h != nil {
						h.Resume()
					}
				case control.CmdStop:
					if h := e.currentHandle(); h != nil {
						h.Stop()
					}
				}
			}
			// send reply if requested
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- nil:
				default:
				}
			}
		}
	}
}

func (a *ShowcaseManager) entryByName(name string) *showcaseEntry {
	for _, e := range a.entries {
		if e.cfg.Name == name {
			return e
		}
	}
	return nil
}

// startEntry launches a fresh run of the entry's config, stopping any run
// still in flight first so two loops never share a container.
func (a *ShowcaseManager) startEntry(e *showcaseEntry) {
	if old := e.currentHandle(); old != nil {
		old.Stop()
		select {
		case <-old.Done():
		case <-time.After(2 * time.Second):
			log.Printf("startEntry: previous run of %q did not stop in time", e.cfg.Name)
			return
		}
	}

	runCfg := *e.cfg
	runCfg.OnComplete = func() {
		a.onEffectFinished(e)
	}
	e.setHandle(typewriter.Run(a.registry, runCfg))
	a.UpdateControlButtonState()
}

// onEffectFinished runs on the effect goroutine as the run's completion
// callback, after cursor cleanup.
func (a *ShowcaseManager) onEffectFinished(e *showcaseEntry) {
	if h := e.currentHandle(); h != nil && !h.IsStopped() {
		a.playChime()
	}
	e.widget.UpdateDisplay()
	a.UpdateControlButtonState()
}

// StartAll enqueues a replay for every showcase entry.
func (a *ShowcaseManager) StartAll() {
	for _, e := range a.entries {
		a.EnqueueCommand(control.Command{Type: control.CmdReplay, Target: e.cfg.Name})
	}
}

// Widgets returns all showcase panel widgets.
func (a *ShowcaseManager) Widgets() []*ui.EffectWidget {
	ws := make([]*ui.EffectWidget, 0, len(a.entries))
	for _, e := range a.entries {
		ws = append(ws, e.widget)
	}
	return ws
}

func (a *ShowcaseManager) initAudio() {
	if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v\n", err)
		return
	}
	a.audioReady = true
}

// playChime plays a short synthesized tone when an effect completes.
func (a *ShowcaseManager) playChime() {
	if !a.audioReady {
		return
	}

	tone, err := generators.SineTone(chimeSampleRate, chimeFreq)
	if err != nil {
		log.Printf("Failed to generate chime: %v", err)
		return
	}

	a.speakerLock.Lock()
	defer a.speakerLock.Unlock()

	speaker.Play(beep.Take(chimeSampleRate.N(chimeDuration), tone))
}

// UpdateControlButtonState updates the visibility of the main control buttons.
func (a *ShowcaseManager) UpdateControlButtonState() {
	isAnyRunning := false
	isAnyPaused := false

	for _, e := range a.entries {
		switch e.widget.DisplayState() {
		case typewriter.StateRunning:
			isAnyRunning = true
		case typewriter.StatePaused:
			isAnyPaused = true
		}
	}

	fyne.Do(func() {
		if a.replayButton == nil {
			return
		}

		if isAnyRunning {
			a.replayButton.Hide()
			a.pauseButton.Show()
			a.resumeButton.Hide()
		} else if isAnyPaused {
			a.replayButton.Hide()
			a.pauseButton.Hide()
			a.resumeButton.Show()
		} else {
			a.replayButton.Show()
			a.pauseButton.Hide()
			a.resumeButton.Hide()
		}

		if isAnyRunning || isAnyPaused {
			a.stopButton.Enable()
		} else {
			a.stopButton.Disable()
		}

		a.replayButton.Refresh()
		a.pauseButton.Refresh()
		a.resumeButton.Refresh()
		a.stopButton.Refresh()
	})
}

// tick refreshes every panel so cursor blink and state tints stay current
// even when no characters are being typed.
func (a *ShowcaseManager) tick(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, e := range a.entries {
				e.widget.UpdateDisplay()
			}
		}
	}
}

// HandleKeyRune handles key presses for the application.
func (a *ShowcaseManager) HandleKeyRune(r rune) {
	switch r {
	case ' ':
		if !a.pauseButton.Hidden {
			a.pauseButton.Tapped(&fyne.PointEvent{})
		} else if !a.resumeButton.Hidden {
			a.resumeButton.Tapped(&fyne.PointEvent{})
		} else if !a.replayButton.Hidden {
			a.replayButton.Tapped(&fyne.PointEvent{})
		}
		return
	case 's', 'S':
		a.stopButton.Tapped(&fyne.PointEvent{})
		return
	}

	if r >= '1' && r <= '9' {
		index := int(r - '1')
		if index < len(a.entries) {
			e := a.entries[index]
			e.widget.GetCanvasObject().(*ui.TappableContainer).Tapped(&fyne.PointEvent{})
		}
	}
}

// ShowAboutDialog shows the localized about dialog.
func (a *ShowcaseManager) ShowAboutDialog() {
	bytes, err := a.content.ReadFile("assets/dialogue_about.json")
	if err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}

	var dialogues map[string]string
	if err := json.Unmarshal(bytes, &dialogues); err != nil {
		dialog.ShowError(err, a.mainWindow)
		return
	}

	contentText, ok := dialogues[i18n.GetLang()]
	if !ok {
		contentText = dialogues["en"]
	}

	text := widget.NewLabel(contentText)
	text.Wrapping = fyne.TextWrapWord

	scrollableContent := container.NewVScroll(text)
	scrollableContent.SetMinSize(fyne.NewSize(420, 240))

	dialog.ShowCustom(i18n.T("About TypeFX"), i18n.T("Close"), scrollableContent, a.mainWindow)
}

// SetReplayButton sets the replay button widget.
func (a *ShowcaseManager) SetReplayButton(btn *widget.Button) {
	a.replayButton = btn
}

// SetPauseButton sets the pause button widget.
func (a *ShowcaseManager) SetPauseButton(btn *widget.Button) {
	a.pauseButton = btn
}

// SetResumeButton sets the resume button widget.
func (a *ShowcaseManager) SetResumeButton(btn *widget.Button) {
	a.resumeButton = btn
}

// SetStopButton sets the stop button widget.
func (a *ShowcaseManager) SetStopButton(btn *widget.Button) {
	a.stopButton = btn
}

// Shutdown attempts to gracefully stop the manager. It stops every running
// effect and cancels the command loop.
func (a *ShowcaseManager) Shutdown() {
	for _, e := range a.entries {
		if h := e.currentHandle(); h != nil {
			h.Stop()
		}
	}
	if a.cmdCancel != nil {
		a.cmdCancel()
	}
}
