package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"MarkupBoard/internal/entity"
	"MarkupBoard/internal/state"
	"MarkupBoard/internal/style"
)

const eraserWidth = 20

// shapeKinds are the entities the toolbar can add. Images come from the
// host bridge only.
var shapeKinds = []entity.Kind{
	entity.KindCircle, entity.KindRect, entity.KindSquare, entity.KindTriangle,
	entity.KindArrow, entity.KindText, entity.KindRuler, entity.KindMeasurementTool,
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar edits the board of an App.
type Toolbar struct {
	app *App

	// the pen color to return to after erasing
	lastColor color.NRGBA
	width     float64

	undo    *widget.Button
	remove  *widget.Button
	bigger  *widget.Button
	smaller *widget.Button
}

func newToolbar(a *App) *Toolbar {
	brush := a.board.Brush()
	t := &Toolbar{app: a, lastColor: brush.Color, width: brush.StrokeWidth}
	if brush.IsEraser() {
		t.lastColor = style.Black
	}
	return t
}

func (t *Toolbar) pen() {
	t.app.board.SetBrush(style.NewPaint(t.lastColor, t.width))
}

func (t *Toolbar) eraser() {
	t.app.board.SetBrush(style.NewPaint(style.Transparent, eraserWidth))
}

func (t *Toolbar) addShape(label string) {
	if label == "" {
		return
	}
	k, err := entity.LookupKind(label)
	if err != nil {
		return
	}
	if !t.app.board.AddEntity(k, state.EntityOptions{}) {
		t.app.SetStatus("Could not add " + label)
	}
}

func (t *Toolbar) save() {
	cfg := t.app.export
	name := "board-" + time.Now().Format("20060102-150405")
	opts := state.FlattenOptions{IncludeImage: true, IncludeText: true}
	if _, err := t.app.board.Save(cfg.Format, cfg.Folder, name, opts); err != nil {
		t.app.SetStatus("Error saving: " + err.Error())
	}
}

// update enables the buttons that apply to the current drawing state.
func (t *Toolbar) update(ds state.DrawingState) {
	setEnabled(t.undo, ds.CanUndo)
	setEnabled(t.remove, ds.CanDelete)
	text := ds.ShapeType == string(entity.KindText)
	setEnabled(t.bigger, text)
	setEnabled(t.smaller, text)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// Object builds the toolbar row.
func (t *Toolbar) Object() fyne.CanvasObject {
	board := t.app.board

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), t.pen),   // Pen
		widget.NewToolbarAction(theme.ContentRemoveIcon(), t.eraser), // Eraser
	)

	// --- Color Palette ---
	onColorTapped := func(c color.NRGBA) {
		t.lastColor = c
		t.pen()
	}
	colorBox := container.NewHBox(
		newColorSwatch(style.Black, onColorTapped),
		newColorSwatch(color.NRGBA{R: 255, A: 255}, onColorTapped),         // Red
		newColorSwatch(color.NRGBA{G: 255, A: 255}, onColorTapped),         // Green
		newColorSwatch(style.Blue, onColorTapped),                          // Blue
		newColorSwatch(color.NRGBA{R: 255, G: 255, A: 255}, onColorTapped), // Yellow
	)

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(t.width)
	strokeSlider.OnChanged = func(val float64) {
		t.width = val
		if !board.Brush().IsEraser() {
			t.pen()
		}
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	// --- Shapes ---
	labels := make([]string, len(shapeKinds))
	for i, k := range shapeKinds {
		labels[i] = string(k)
	}
	shapes := widget.NewSelect(labels, nil)
	shapes.PlaceHolder = "Add shape"
	shapes.OnChanged = func(s string) {
		t.addShape(s)
		if s != "" {
			shapes.ClearSelected()
		}
	}

	// --- Actions ---
	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), board.Undo)
	t.remove = widget.NewButtonWithIcon("", theme.DeleteIcon(), board.DeleteSelected)
	t.bigger = widget.NewButtonWithIcon("", theme.ZoomInIcon(), board.IncreaseTextFontSize)
	t.smaller = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), board.DecreaseTextFontSize)
	t.update(state.DrawingState{})

	clearAll := widget.NewButtonWithIcon("", theme.ContentClearIcon(), board.Clear)
	saveBtn := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), t.save)

	// --- Assemble everything ---
	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		shapes,
		t.bigger,
		t.smaller,
		widget.NewSeparator(),
		t.undo,
		t.remove,
		clearAll,
		saveBtn,
		layout.NewSpacer(),
	)
}
