// Package state owns the board: freehand strokes, entities, the selection
// and the history log that orders undo across both.
//
// A Board is not safe for concurrent use. Hosts serialize calls onto one
// goroutine; only the debounced selection event is delivered from a timer.
package state

import (
	"errors"
	"image"
	"image/color"
	"log"
	"slices"
	"time"

	"MarkupBoard/internal/entity"
	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/gesture"
	"MarkupBoard/internal/style"
)

// ErrNoCanvas is returned when the board has no size yet.
var ErrNoCanvas = errors.New("canvas has no size")

// DefaultDeselectDelay is how long the "selection cleared" event is held back.
const DefaultDeselectDelay = 250 * time.Millisecond

// defaultText is placed when a text entity is added without text.
const defaultText = "No Text provided!"

// Options configures a new Board.
type Options struct {
	Width, Height      int
	Paint              style.Paint
	Border             style.Border
	DeselectDelay      time.Duration
	MeasureTouchRadius float64
	Gesture            gesture.Options
	Clock              Clock
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Paint:              style.DefaultPaint(),
		Border:             style.DefaultBorder(),
		DeselectDelay:      DefaultDeselectDelay,
		MeasureTouchRadius: entity.DefaultTouchRadius,
		Gesture:            gesture.DefaultOptions(),
		Clock:              SystemClock,
	}
}

// EntityOptions carries the kind specific parameters of AddEntity.
type EntityOptions struct {
	FontType   string
	FontSize   int
	Text       *string
	ImageAsset string
}

// Board is the canvas controller.
type Board struct {
	// OnEvent receives outbound notifications. It may be called from a
	// timer goroutine for the debounced selection event.
	OnEvent func(Event)
	// OnInvalidate is called whenever the board needs repainting.
	OnInvalidate func()

	width, height int

	paths    []*SketchData
	entities []entity.Entity
	history  history
	mode     interaction

	touchPath *SketchData
	ids       pathIDs

	paint       style.Paint // entity stroke color and width
	brush       style.Paint // freehand strokes drawn by touch
	border      style.Border
	touchRadius float64

	drawingLayer     *image.RGBA
	translucentLayer *image.RGBA
	needsFullRedraw  bool
	dirty            geom.Regions

	texts canvasTexts

	background image.Image
	bgMode     geom.ContentMode
	bgCache    *image.RGBA
	bgCacheFor image.Rectangle

	deselect *debouncer
	pipeline *gesture.Pipeline
}

// NewBoard creates an empty board.
func NewBoard(opts Options) *Board {
	b := &Board{
		mode:        idle{},
		paint:       opts.Paint,
		brush:       opts.Paint,
		border:      opts.Border,
		touchRadius: opts.MeasureTouchRadius,
		deselect:    newDebouncer(opts.Clock, opts.DeselectDelay),
	}
	if b.touchRadius <= 0 {
		b.touchRadius = entity.DefaultTouchRadius
	}
	b.pipeline = gesture.NewPipeline(b, opts.Gesture)
	if opts.Width > 0 && opts.Height > 0 {
		b.SetSize(opts.Width, opts.Height)
	}
	return b
}

func (b *Board) emit(ev Event) {
	if b.OnEvent != nil {
		b.OnEvent(ev)
	}
}

// invalidate requests a repaint, optionally telling the host the path
// count.
func (b *Board) invalidate(dispatch bool) {
	if dispatch {
		b.emit(canvasChanged(len(b.paths)))
	}
	b.markDirty(geom.NewRect(0, 0, float64(b.width), float64(b.height)))
}

func (b *Board) markDirty(r geom.Rect) {
	b.dirty.Add(r)
	if b.OnInvalidate != nil {
		b.OnInvalidate()
	}
}

// TakeDirty returns the area changed since the last call.
func (b *Board) TakeDirty() geom.Rect {
	return b.dirty.Take()
}

// RenderIfDirty repaints dst only when something changed since the last
// TakeDirty and reports whether it did. An untouched dst keeps the previous
// frame.
func (b *Board) RenderIfDirty(dst *image.RGBA) bool {
	if b.TakeDirty().Empty() {
		return false
	}
	b.Render(dst)
	return true
}

// Size returns the canvas size.
func (b *Board) Size() (int, int) {
	return b.width, b.height
}

// SetSize resizes the canvas. Strokes are re-rasterized on the next render
// and overlay text is laid out again.
func (b *Board) SetSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	b.width, b.height = w, h
	b.drawingLayer = image.NewRGBA(image.Rect(0, 0, w, h))
	b.translucentLayer = image.NewRGBA(image.Rect(0, 0, w, h))
	b.texts.layout(w, h)
	b.bgCache = nil
	b.needsFullRedraw = true
	b.invalidate(false)
}

// Paint returns the paint entities are drawn with.
func (b *Board) Paint() style.Paint {
	return b.paint
}

// SetBrush sets the pen used for strokes drawn by touch. A visible color
// also becomes the entity color, as with NewPath.
func (b *Board) SetBrush(p style.Paint) {
	b.brush = p
	if !p.IsEraser() {
		b.paint.Color = p.Color
	}
	b.paint.StrokeWidth = p.StrokeWidth
	b.invalidate(false)
}

// Brush returns the pen used for strokes drawn by touch.
func (b *Board) Brush() style.Paint {
	return b.brush
}

// Paths returns the strokes in drawing order.
func (b *Board) Paths() []*SketchData {
	return slices.Clone(b.paths)
}

// Entities returns the entities bottom to top.
func (b *Board) Entities() []entity.Entity {
	return slices.Clone(b.entities)
}

// History returns the ids in the history log, oldest first.
func (b *Board) History() []string {
	return b.history.snapshot()
}

// Selected returns the selected entity or nil.
func (b *Board) Selected() entity.Entity {
	return selectedOf(b.mode)
}

// Measuring returns the measurement tool under construction or nil.
func (b *Board) Measuring() *entity.MeasureTool {
	return measuringOf(b.mode)
}

// CanUndo reports whether the history log has anything to undo.
func (b *Board) CanUndo() bool {
	return b.history.len() > 0
}

// Clear removes every stroke and entity.
func (b *Board) Clear() {
	for _, e := range b.entities {
		e.Release()
	}
	b.history.clear()
	b.paths = nil
	b.entities = nil
	b.touchPath = nil
	b.mode = idle{}
	b.needsFullRedraw = true
	log.Printf("[BOARD] Cleared")
	b.invalidate(true)
}

// NewPath starts a stroke. A visible color also becomes the entity color.
func (b *Board) NewPath(id int, c color.NRGBA, width float64) {
	path := NewSketchData(id, c, width)
	if c.A != 0 {
		b.paint.Color = c
	}
	b.paint.StrokeWidth = width
	b.brush = style.NewPaint(c, width)
	b.paths = append(b.paths, path)

	switch b.mode.(type) {
	case idle, drawing:
		b.mode = drawing{path: path}
	}
	b.invalidate(true)
}

// AddPoint extends the current stroke. Points are dropped while an entity
// is selected or measured, and the first point of a stroke may not land on
// an entity. It returns the area that changed.
func (b *Board) AddPoint(p geom.Point, isMove bool) geom.Rect {
	path := currentPathOf(b.mode)
	if path == nil {
		return geom.Rect{}
	}
	if !isMove && b.FindEntityAt(p) != nil {
		return geom.Rect{}
	}

	r := path.AddPoint(p)
	if path.IsTranslucent {
		clearImage(b.translucentLayer)
		path.Draw(b.translucentLayer)
	} else {
		path.DrawLastPoint(b.drawingLayer)
	}
	b.markDirty(r)
	b.strokeState(true)
	return r
}

// AddPath adds a finished stroke unless one with the same id exists.
func (b *Board) AddPath(id int, c color.NRGBA, width float64, points []geom.Point) {
	if c.A != 0 {
		b.paint.Color = c
	}
	if b.pathIndex(id) >= 0 {
		log.Printf("[BOARD] Path %d already exists, ignoring", id)
		return
	}

	path := NewSketchData(id, c, width)
	path.Points = slices.Clone(points)
	b.paths = append(b.paths, path)
	if len(path.Points) > 0 {
		b.history.push(path.Key())
	}
	path.Draw(b.drawingLayer)
	b.invalidate(true)
}

func (b *Board) pathIndex(id int) int {
	return slices.IndexFunc(b.paths, func(p *SketchData) bool { return p.ID == id })
}

// DeletePath removes a stroke and its history entry.
func (b *Board) DeletePath(id int) {
	i := b.pathIndex(id)
	if i < 0 {
		return
	}
	path := b.paths[i]
	b.history.remove(path.Key())
	b.paths = slices.Delete(b.paths, i, i+1)
	if currentPathOf(b.mode) == path {
		b.mode = idle{}
	}
	if b.touchPath == path {
		b.touchPath = nil
	}
	b.needsFullRedraw = true
	log.Printf("[BOARD] Path removed: %d", id)
	b.invalidate(true)
}

// EndPath finishes the current stroke.
func (b *Board) EndPath() {
	if path := currentPathOf(b.mode); path != nil {
		b.finishPath(path)
		b.mode = idle{}
	}
	b.touchPath = nil
	b.strokeState(false)
}

// finishPath merges a translucent stroke into the drawing layer and logs the
// stroke in the history if it has points.
func (b *Board) finishPath(path *SketchData) {
	if path.IsTranslucent {
		path.Draw(b.drawingLayer)
		clearImage(b.translucentLayer)
	}
	if len(path.Points) > 0 {
		b.history.push(path.Key())
	}
}

// ShapeConfig updates how new entities look. Nil fields are left alone and
// transparent colors are ignored.
type ShapeConfig struct {
	BorderColor       *string  `json:"shapeBorderColor,omitempty"`
	BorderStyle       *string  `json:"shapeBorderStyle,omitempty"`
	BorderStrokeWidth *float64 `json:"shapeBorderStrokeWidth,omitempty"`
	Color             *string  `json:"shapeColor,omitempty"`
	StrokeWidth       *float64 `json:"shapeStrokeWidth,omitempty"`
}

// SetShapeConfiguration applies cfg. Fields are applied in order until one
// fails to parse.
func (b *Board) SetShapeConfiguration(cfg ShapeConfig) error {
	if cfg.BorderColor != nil {
		c, err := style.ParseColor(*cfg.BorderColor)
		if err != nil {
			return err
		}
		if c.A != 0 {
			b.border.Color = c
		}
	}
	if cfg.BorderStyle != nil {
		b.border.Style = style.ParseBorderStyle(*cfg.BorderStyle)
	}
	if cfg.BorderStrokeWidth != nil {
		b.border.Width = *cfg.BorderStrokeWidth
	}
	if cfg.Color != nil {
		c, err := style.ParseColor(*cfg.Color)
		if err != nil {
			return err
		}
		if c.A != 0 {
			b.paint.Color = c
		}
	}
	if cfg.StrokeWidth != nil {
		b.paint.StrokeWidth = *cfg.StrokeWidth
	}
	// the selection is drawn with the new paint
	b.invalidate(false)
	return nil
}

// FindEntityAt returns the top-most entity containing p, or nil.
func (b *Board) FindEntityAt(p geom.Point) entity.Entity {
	for i := len(b.entities) - 1; i >= 0; i-- {
		if b.entities[i].HitTest(p) {
			return b.entities[i]
		}
	}
	return nil
}

// AddEntity creates an entity of the given kind, centers it in the upper
// half of the canvas and selects it. A measurement still under construction
// is discarded first. It reports whether anything was placed.
func (b *Board) AddEntity(kind entity.Kind, opts EntityOptions) bool {
	if mt := measuringOf(b.mode); mt != nil {
		b.removeEntity(mt)
		b.mode = idle{}
	}
	if b.width <= 0 || b.height <= 0 {
		log.Printf("[BOARD] Cannot add %s: %v", kind, ErrNoCanvas)
		return false
	}

	cw, ch := float64(b.width), float64(b.height)
	var e entity.Entity
	switch kind {
	case entity.KindRect:
		e = entity.NewRect(cw, ch, entity.RectWidth, entity.RectHeight, b.paint)
	case entity.KindSquare:
		e = entity.NewSquare(cw, ch, b.paint)
	case entity.KindTriangle:
		e = entity.NewTriangle(cw, ch, b.paint)
	case entity.KindArrow:
		e = entity.NewArrow(cw, ch, b.paint)
	case entity.KindRuler:
		e = entity.NewRuler(cw, ch, b.paint)
	case entity.KindText:
		t, err := b.newText(cw, ch, opts)
		if err != nil {
			log.Printf("[BOARD] Cannot add text: %v", err)
			return false
		}
		e = t
	case entity.KindMeasurementTool:
		mt := entity.NewMeasureTool(cw, ch, b.paint)
		mt.SetTouchRadius(b.touchRadius)
		b.place(mt)
		log.Printf("[BOARD] Measurement started: %s", mt.ID())
		return true
	case entity.KindImage:
		log.Printf("[BOARD] Image entities are not supported (asset %q)", opts.ImageAsset)
		return false
	default:
		e = entity.NewCircle(cw, ch, b.paint)
	}

	b.place(e)
	c := e.AbsoluteCenter()
	c.Y *= 0.5
	e.MoveCenterTo(c)
	log.Printf("[BOARD] Entity added: %s %s", e.Kind(), e.ID())
	b.invalidate(true)
	return true
}

func (b *Board) newText(cw, ch float64, opts EntityOptions) (*entity.Text, error) {
	s := defaultText
	if opts.Text != nil {
		s = *opts.Text
	}
	f := entity.Font{
		Size:  entity.HostFontSize(opts.FontSize),
		Color: b.paint.Color,
		Face:  opts.FontType,
	}
	return entity.NewText(cw, ch, entity.NewTextLayer(s, f))
}

// place positions a new entity and makes it the selection.
func (b *Board) place(e entity.Entity) {
	e.SetBorder(b.border)
	e.MoveToCanvasCenter()
	e.Layer().SetScale(e.Layer().InitialScale())

	b.entities = append(b.entities, e)
	b.history.push(e.ID())
	b.notifySelection(true)
	b.selectEntity(e)
	b.drawingState(false)
}

// selectEntity makes e the only selected entity; nil clears the selection.
func (b *Board) selectEntity(e entity.Entity) {
	if path := currentPathOf(b.mode); path != nil {
		b.finishPath(path)
		b.touchPath = nil
	}
	if prev := selectedOf(b.mode); prev != nil {
		prev.SetSelected(false)
	}

	switch v := e.(type) {
	case nil:
		b.mode = idle{}
	case *entity.MeasureTool:
		v.SetSelected(true)
		if v.DrawingStep() != entity.CompleteStep {
			b.mode = measuring{tool: v}
		} else {
			b.mode = selecting{entity: v}
		}
	default:
		e.SetSelected(true)
		b.mode = selecting{entity: e}
	}
	b.invalidate(true)
}

// notifySelection tells the host about a selection change. Clearing is
// held back so the gesture that deselected is not taken as drawing; a new
// selection voids the pending notification.
func (b *Board) notifySelection(selected bool) {
	if selected {
		b.deselect.Cancel()
		b.emit(selectionChanged(true))
		return
	}
	ev := selectionChanged(false)
	b.deselect.Schedule(func() { b.emit(ev) })
}

// Unselect clears the selection without notifying the host.
func (b *Board) Unselect() {
	b.selectEntity(nil)
}

// clearCurrentShape ends a finished measurement and clears the selection.
func (b *Board) clearCurrentShape() {
	b.selectEntity(nil)
	b.notifySelection(false)
	b.drawingState(false)
}

// DeleteSelected removes the selected entity. An entity still under
// construction stays; undo rolls it back instead.
func (b *Board) DeleteSelected() {
	for _, e := range b.entities {
		if e.Selected() {
			if e.DrawingStep() != entity.CompleteStep {
				log.Printf("[BOARD] Not deleting %s while it is being built", e.ID())
				return
			}
			b.deleteShape(e)
			return
		}
	}
}

// removeEntity drops e from the entity list and the history and frees its
// buffer. It reports whether e was on the board.
func (b *Board) removeEntity(e entity.Entity) bool {
	e.SetSelected(false)
	b.history.remove(e.ID())
	i := slices.Index(b.entities, e)
	if i < 0 {
		return false
	}
	b.entities = slices.Delete(b.entities, i, i+1)
	e.Release()
	return true
}

func (b *Board) deleteShape(e entity.Entity) {
	if e == nil {
		return
	}
	if selectedOf(b.mode) == e {
		b.mode = idle{}
	}
	if b.removeEntity(e) {
		log.Printf("[BOARD] Entity removed: %s", e.ID())
		b.notifySelection(false)
		b.invalidate(true)
	}
}

// Undo removes the newest history item, stroke or entity. The selection is
// undone instead while it is being built or is itself the newest item; an
// entity with construction steps left only loses its last step.
func (b *Board) Undo() {
	var target entity.Entity
	lastID, hasLast := b.history.last()

	if sel := selectedOf(b.mode); sel != nil &&
		(sel.DrawingStep() != entity.CompleteStep || (hasLast && lastID == sel.ID())) {
		target = sel
	} else if len(b.entities) > 0 && !(hasLast && isPathID(lastID)) {
		target = b.entityByID(lastID)
		if target == nil {
			target = b.entities[len(b.entities)-1]
		}
	}

	switch {
	case target != nil:
		if !target.Undo() {
			b.deleteShape(target)
			b.drawingState(false)
			return
		}
		b.selectEntity(target)
		b.drawingState(true)
		b.invalidate(true)
	case hasLast && isPathID(lastID):
		id, _ := parsePathID(lastID)
		b.DeletePath(id)
	}
}

func (b *Board) entityByID(id string) entity.Entity {
	for _, e := range b.entities {
		if e.ID() == id {
			return e
		}
	}
	return nil
}

func (b *Board) selectedText() *entity.Text {
	t, _ := selectedOf(b.mode).(*entity.Text)
	return t
}

// IncreaseTextFontSize grows the selected text entity's font.
func (b *Board) IncreaseTextFontSize() {
	if t := b.selectedText(); t != nil {
		t.IncreaseFontSize()
		b.invalidate(true)
	}
}

// DecreaseTextFontSize shrinks the selected text entity's font.
func (b *Board) DecreaseTextFontSize() {
	if t := b.selectedText(); t != nil {
		t.DecreaseFontSize()
		b.invalidate(true)
	}
}

// SetTextEntityText replaces the selected text entity's text, or labels the
// selected measurement once both endpoints are set. Empty text is ignored.
func (b *Board) SetTextEntityText(s string) {
	switch sel := selectedOf(b.mode).(type) {
	case *entity.Text:
		if sel.SetText(s) {
			b.invalidate(true)
		}
	case *entity.MeasureTool:
		if s != "" && sel.SetLabel(s) {
			log.Printf("[BOARD] Measurement labeled: %q", s)
			b.drawingState(false)
			b.invalidate(true)
		}
	}
}

// SetCanvasText replaces the overlay text blocks.
func (b *Board) SetCanvasText(blocks []TextBlock) {
	b.texts.set(blocks, b.width, b.height)
	b.invalidate(false)
}

// drawingState tells the host what the selection allows.
func (b *Board) drawingState(fromUndo bool) {
	ds := DrawingState{CanUndo: b.CanUndo(), DrawingStep: entity.CompleteStep}
	if sel := selectedOf(b.mode); sel != nil {
		ds.CanDelete = sel.DrawingStep() == entity.CompleteStep && !fromUndo
		ds.ShapeType = string(sel.Kind())
		ds.DrawingStep = sel.DrawingStep()
	}
	b.emit(drawingStateChanged(ds))
}

// strokeState reports stroke progress while nothing is selected.
func (b *Board) strokeState(pointerDown bool) {
	if selectedOf(b.mode) != nil {
		return
	}
	step := 1
	if pointerDown {
		step = 0
	}
	b.emit(drawingStateChanged(DrawingState{
		CanUndo:     b.CanUndo(),
		ShapeType:   "stroke",
		DrawingStep: step,
	}))
}
