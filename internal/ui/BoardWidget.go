package ui

import (
	"image"
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/gesture"
	"MarkupBoard/internal/state"
)

const (
	// scrollStep is the wheel distance that doubles the selection.
	scrollStep = 200
	// scrollTurn is the horizontal wheel distance per degree of rotation.
	scrollTurn = 2
)

// BoardWidget shows a board and feeds it mouse input as touch events.
// All of its methods run on the fyne main goroutine.
type BoardWidget struct {
	widget.BaseWidget
	board  *state.Board
	raster *canvas.Raster
	frame  *image.RGBA

	pressed bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

// NewBoardWidget creates a widget that repaints whenever b changes.
func NewBoardWidget(b *state.Board) *BoardWidget {
	w := &BoardWidget{board: b}
	w.raster = canvas.NewRaster(w.render)
	b.OnInvalidate = w.Refresh
	w.ExtendBaseWidget(w)
	return w
}

// Board returns the board shown by the widget.
func (w *BoardWidget) Board() *state.Board {
	return w.board
}

func (w *BoardWidget) render(_, _ int) image.Image {
	bw, bh := w.board.Size()
	if bw <= 0 || bh <= 0 {
		return image.NewUniform(color.Transparent)
	}
	if w.frame == nil || w.frame.Bounds().Dx() != bw || w.frame.Bounds().Dy() != bh {
		w.frame = image.NewRGBA(image.Rect(0, 0, bw, bh))
		w.board.TakeDirty()
		w.board.Render(w.frame)
		return w.frame
	}
	w.board.RenderIfDirty(w.frame)
	return w.frame
}

// Resize keeps the board the same size as the widget.
func (w *BoardWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	bw, bh := int(size.Width), int(size.Height)
	if cw, ch := w.board.Size(); cw != bw || ch != bh {
		w.board.SetSize(bw, bh)
	}
}

func (w *BoardWidget) touch(a gesture.Action, pos fyne.Position) {
	w.board.HandleTouch(gesture.Single(a, float64(pos.X), float64(pos.Y), time.Now()))
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.pressed = true
	w.touch(gesture.ActionDown, e.Position)
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !w.pressed {
		return
	}
	w.pressed = false
	w.touch(gesture.ActionUp, e.Position)
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	if w.pressed {
		w.touch(gesture.ActionMove, e.Position)
	}
}

func (w *BoardWidget) DragEnd() {}

// Scrolled turns the wheel into a pinch on the selected entity: vertical
// scroll scales, horizontal scroll rotates.
func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if w.pressed || w.board.Selected() == nil {
		return
	}
	factor := math.Max(0.5, math.Min(2, 1+float64(e.Scrolled.DY)/scrollStep))
	degrees := float64(e.Scrolled.DX) / scrollTurn
	center := geom.Pt(float64(e.Position.X), float64(e.Position.Y))
	for _, ev := range gesture.Pinch(center, factor, degrees, time.Now()) {
		w.board.HandleTouch(ev)
	}
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: w}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.raster.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
