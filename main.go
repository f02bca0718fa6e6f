package main

import (
	"TypeFX/ui"
	"context"
	"embed"

	"fyne.io/fyne/v2/app"
)

//go:embed assets/*
var content embed.FS

func main() {
	fyneApp := app.New()
	fyneApp.Settings().SetTheme(ui.NewMonoTheme())

	a := NewShowcaseManager(content)

	w := ui.CreateMainWindow(a, fyneApp)
	a.mainWindow = w

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(func() {
		cancel()
		a.Shutdown()
	})

	go a.tick(ctx)
	a.StartAll()

	w.ShowAndRun()
}
