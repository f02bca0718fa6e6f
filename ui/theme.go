package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// MonoTheme forces the monospace face for every text style so typed
// characters advance at a fixed width.
type MonoTheme struct {
	fyne.Theme
}

// NewMonoTheme creates a new instance of the monospace theme.
func NewMonoTheme() fyne.Theme {
	return &MonoTheme{Theme: theme.DefaultTheme()}
}

// Font returns the monospace font for the given style.
func (t *MonoTheme) Font(style fyne.TextStyle) fyne.Resource {
	style.Monospace = true
	return t.Theme.Font(style)
}
