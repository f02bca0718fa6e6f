package ui

import (
	"TypeFX/control"
	"TypeFX/i18n"
	"TypeFX/typewriter"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// cursorGlyph is the visual cursor marker appended after the animated text.
// It is styling, never part of the container's text content.
const cursorGlyph = "▌"

type App interface {
	Widgets() []*EffectWidget
	EnqueueCommand(cmd control.Command)
	UpdateControlButtonState()
	HandleKeyRune(rune)
	ShowAboutDialog()
	SetPauseButton(*widget.Button)
	SetResumeButton(*widget.Button)
	SetReplayButton(*widget.Button)
	SetStopButton(*widget.Button)
}

// EffectWidget is one showcase panel. It implements typewriter.Container,
// so the effect goroutine mutates it directly; rendering always goes
// through fyne.Do.
type EffectWidget struct {
	name string

	mu          sync.Mutex
	content     string
	cursorOn    bool
	blinkPeriod time.Duration
	cursorSince time.Time
	handle      *typewriter.Handle

	titleText         *canvas.Text
	bodyText          *canvas.Text
	colorFilterRect   *canvas.Rectangle
	borderRect        *canvas.Rectangle
	tappableContainer *TappableContainer
}

func NewEffectWidget(a App, cfg *typewriter.EffectConfig) *EffectWidget {
	w := &EffectWidget{
		name:    cfg.Name,
		content: cfg.SeedText,
	}

	w.titleText = canvas.NewText(cfg.Name, color.NRGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff})
	w.titleText.TextSize = typewriter.FontSize

	w.bodyText = canvas.NewText(cfg.SeedText, color.White)
	w.bodyText.TextStyle.Monospace = true
	w.bodyText.TextSize = typewriter.FontSizeText

	w.colorFilterRect = canvas.NewRectangle(color.Transparent)
	w.colorFilterRect.CornerRadius = typewriter.CornerRadius

	w.borderRect = canvas.NewRectangle(color.Transparent)
	w.borderRect.SetMinSize(fyne.NewSize(typewriter.EffectWidth, typewriter.EffectHeight))
	w.borderRect.CornerRadius = typewriter.CornerRadius

	leftPad := canvas.NewRectangle(color.Transparent)
	leftPad.SetMinSize(fyne.NewSize(12, 0))

	textBlock := container.New(layout.NewVBoxLayout(),
		layout.NewSpacer(),
		container.New(layout.NewHBoxLayout(), leftPad, w.titleText),
		container.New(layout.NewHBoxLayout(), leftPad, w.bodyText),
		layout.NewSpacer(),
	)

	w.tappableContainer = NewTappableContainer(
		container.NewStack(w.colorFilterRect, textBlock, w.borderRect), nil, nil)

	w.tappableContainer.OnTappedPrimary = func() {
		var cmdType control.CommandType
		switch w.DisplayState() {
		case typewriter.StateRunning:
			cmdType = control.CmdPause
		case typewriter.StatePaused:
			cmdType = control.CmdResume
		default:
			cmdType = control.CmdReplay
		}

		reply := make(chan error, 1)
		a.EnqueueCommand(control.Command{Type: cmdType, Target: w.name, Reply: reply})
		select {
		case <-reply:
		case <-time.After(200 * time.Millisecond):
		}
		w.UpdateDisplay()
		a.UpdateControlButtonState()
	}

	w.tappableContainer.OnTappedSecondary = func(e *fyne.PointEvent) {
		reply := make(chan error, 1)
		a.EnqueueCommand(control.Command{Type: control.CmdStop, Target: w.name, Reply: reply})
		select {
		case <-reply:
		case <-time.After(200 * time.Millisecond):
		}
		w.UpdateDisplay()
		a.UpdateControlButtonState()
	}

	w.UpdateDisplay()
	return w
}

func (w *EffectWidget) GetCanvasObject() fyne.CanvasObject {
	return w.tappableContainer
}

// Name returns the showcase entry name this widget renders.
func (w *EffectWidget) Name() string {
	return w.name
}

// SetHandle points the widget at the handle of the currently running effect.
func (w *EffectWidget) SetHandle(h *typewriter.Handle) {
	w.mu.Lock()
	w.handle = h
	w.mu.Unlock()
}

// Handle returns the handle of the most recent run, or nil before the first.
func (w *EffectWidget) Handle() *typewriter.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle
}

// DisplayState derives the panel state from the current handle.
func (w *EffectWidget) DisplayState() typewriter.State {
	h := w.Handle()
	if h == nil {
		return typewriter.StateIdle
	}
	return h.Snapshot().State
}

// --- typewriter.Container ---

func (w *EffectWidget) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.content
}

func (w *EffectWidget) SetText(s string) {
	w.mu.Lock()
	w.content = s
	w.mu.Unlock()
	w.UpdateDisplay()
}

func (w *EffectWidget) ShowCursor() {
	w.mu.Lock()
	w.cursorOn = true
	w.cursorSince = time.Now()
	w.mu.Unlock()
	w.UpdateDisplay()
}

func (w *EffectWidget) HideCursor() {
	w.mu.Lock()
	w.cursorOn = false
	w.mu.Unlock()
	w.UpdateDisplay()
}

func (w *EffectWidget) CursorActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorOn
}

func (w *EffectWidget) SetBlinkPeriod(d time.Duration) {
	w.mu.Lock()
	w.blinkPeriod = d
	w.mu.Unlock()
}

func (w *EffectWidget) ClearBlinkPeriod() {
	w.SetBlinkPeriod(0)
}

// UpdateDisplay re-renders the panel from current state. Called by the
// effect goroutine on every mutation and by the app tick for blink phase.
func (w *EffectWidget) UpdateDisplay() {
	w.mu.Lock()
	display := w.content
	if w.cursorOn && w.blinkVisibleLocked() {
		display += cursorGlyph
	}
	w.mu.Unlock()

	state := w.DisplayState()

	fyne.Do(func() {
		var opacity float64 = 0.65
		if state == typewriter.StateRunning {
			opacity = 0.25
		}

		alpha := uint8(opacity * 255)
		w.colorFilterRect.FillColor = withAlpha(typewriter.BackgroundColor, alpha)
		w.bodyText.Text = display

		w.colorFilterRect.Refresh()
		w.bodyText.Refresh()
	})
}

// blinkVisibleLocked computes the blink phase from the wall clock. A zero
// period means a solid, always-visible cursor. Caller holds w.mu.
func (w *EffectWidget) blinkVisibleLocked() bool {
	if w.blinkPeriod <= 0 {
		return true
	}
	return (time.Since(w.cursorSince)/w.blinkPeriod)%2 == 0
}

func BuildEffectsList(a App) *fyne.Container {
	listContainer := container.NewVBox()
	for _, w := range a.Widgets() {
		listContainer.Add(w.GetCanvasObject())
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(0, typewriter.EffectSpacing))
		listContainer.Add(spacer)
	}
	return listContainer
}

// broadcast sends one command per showcase entry and waits briefly for the
// replies so the footer buttons reflect the new state right away.
func broadcast(a App, cmdType control.CommandType) {
	var replies []chan error
	for _, w := range a.Widgets() {
		reply := make(chan error, 1)
		a.EnqueueCommand(control.Command{Type: cmdType, Target: w.Name(), Reply: reply})
		replies = append(replies, reply)
	}
	for _, r := range replies {
		select {
		case <-r:
		case <-time.After(200 * time.Millisecond):
		}
	}
	for _, w := range a.Widgets() {
		w.UpdateDisplay()
	}
	a.UpdateControlButtonState()
}

func BuildFooter(a App) (*widget.Button, *widget.Button, *widget.Button, *widget.Button, fyne.CanvasObject) {
	replayButton := widget.NewButton(i18n.T("Replay"), func() {
		broadcast(a, control.CmdReplay)
	})

	pauseButton := widget.NewButton(i18n.T("Pause"), func() {
		broadcast(a, control.CmdPause)
	})
	pauseButton.Hide()

	resumeButton := widget.NewButton(i18n.T("Resume"), func() {
		broadcast(a, control.CmdResume)
	})
	resumeButton.Hide()

	stopButton := widget.NewButton(i18n.T("Stop"), func() {
		broadcast(a, control.CmdStop)
	})

	controlStack := container.NewStack(replayButton, pauseButton, resumeButton)

	buttonsSpacer := canvas.NewRectangle(color.Transparent)
	buttonsSpacer.SetMinSize(fyne.NewSize(typewriter.ControlButtonsGap, 0))

	aboutIcon := widget.NewIcon(theme.QuestionIcon())
	helpButton := NewTappableContainer(aboutIcon, func() {
		a.ShowAboutDialog()
	}, nil)

	leftContent := container.NewVBox(
		layout.NewSpacer(),
		helpButton,
	)

	controlButtons := container.NewHBox(controlStack, buttonsSpacer, stopButton)

	centeredControlButtons := container.NewHBox(
		layout.NewSpacer(),
		controlButtons,
		layout.NewSpacer(),
	)

	footer := container.New(
		layout.NewBorderLayout(nil, nil, leftContent, nil),
		leftContent,
		container.New(layout.NewCenterLayout(), centeredControlButtons),
	)

	return replayButton, pauseButton, resumeButton, stopButton, footer
}

func CreateMainWindow(a App, fyneApp fyne.App) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "TypeFX"
	}
	w := fyneApp.NewWindow(title)

	listContainer := BuildEffectsList(a)
	replayButton, pauseButton, resumeButton, stopButton, footerLayout := BuildFooter(a)

	a.SetReplayButton(replayButton)
	a.SetPauseButton(pauseButton)
	a.SetResumeButton(resumeButton)
	a.SetStopButton(stopButton)

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)

	bottomSpacer := canvas.NewRectangle(color.Transparent)
	bottomSpacer.SetMinSize(fyne.NewSize(0, typewriter.GapButton))

	contentVBox := container.NewVBox(
		listContainer,
		bottomSpacer,
		footerLayout,
	)

	a.UpdateControlButtonState()

	w.SetContent(contentVBox)
	w.Resize(fyne.NewSize(typewriter.EffectWidth+16, 460))
	w.SetFixedSize(true)
	return w
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
