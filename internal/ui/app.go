// Package ui is the desktop host for a board.
package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"MarkupBoard/internal/config"
	"MarkupBoard/internal/state"
)

// App is a window showing one board.
type App struct {
	// OnEvent receives every board event. It may be called from a timer
	// goroutine.
	OnEvent func(state.Event)

	fyneApp fyne.App
	window  fyne.Window
	board   *state.Board
	view    *BoardWidget
	toolbar *Toolbar
	status  *widget.Label
	export  config.ExportConfig
}

// NewApp builds the window for b. It takes over b.OnEvent and
// b.OnInvalidate.
func NewApp(b *state.Board, cfg *config.Config) *App {
	a := &App{
		fyneApp: app.New(),
		board:   b,
		status:  widget.NewLabel("Ready"),
		export:  cfg.Export,
	}
	a.window = a.fyneApp.NewWindow("MarkupBoard")
	a.window.Resize(fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))

	a.view = NewBoardWidget(b)
	a.toolbar = newToolbar(a)
	b.OnEvent = a.handle

	content := container.NewBorder(a.toolbar.Object(), a.status, nil, nil, a.view)
	a.window.SetContent(content)
	return a
}

// Apply runs a command on the main goroutine and waits for it.
func (a *App) Apply(c state.Command) error {
	var err error
	fyne.DoAndWait(func() {
		err = a.board.Apply(c)
	})
	return err
}

func (a *App) handle(ev state.Event) {
	if a.OnEvent != nil {
		a.OnEvent(ev)
	}
	fyne.Do(func() {
		switch ev.Type {
		case state.EventDrawingState:
			if ev.DrawingState != nil {
				a.toolbar.update(*ev.DrawingState)
			}
		case state.EventSaved:
			if ev.Success != nil && *ev.Success {
				a.status.SetText("Saved " + ev.Path)
			} else {
				a.status.SetText("Save failed")
			}
		case state.EventCanvasChanged:
			if ev.PathsUpdate != nil {
				a.status.SetText(fmt.Sprintf("%d strokes", *ev.PathsUpdate))
			}
		}
	})
}

// SetStatus shows text below the board. Safe from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() {
		a.status.SetText(text)
	})
}

// ShowLink shows where remote hosts connect. Call it before Run.
func (a *App) ShowLink(link string) {
	a.window.SetTitle("MarkupBoard - " + link)
	a.status.SetText("Hosts can connect at " + link)
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	log.Println("[UI] Window opened")
	a.window.ShowAndRun()
	log.Println("[UI] Window closed")
}
