package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"MarkupBoard/internal/entity"
	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/gesture"
	"MarkupBoard/internal/style"
)

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every pending timer.
func (c *fakeClock) fire() {
	c.mu.Lock()
	pending := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range pending {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

type harness struct {
	*Board
	clock  *fakeClock
	events []Event
}

func newHarness(t *testing.T, w, h int) *harness {
	t.Helper()
	clock := &fakeClock{}
	opts := DefaultOptions()
	opts.Width, opts.Height = w, h
	opts.Clock = clock
	hs := &harness{Board: NewBoard(opts), clock: clock}
	hs.OnEvent = func(ev Event) { hs.events = append(hs.events, ev) }
	return hs
}

func (h *harness) lastDrawingState(t *testing.T) DrawingState {
	t.Helper()
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Type == EventDrawingState {
			return *h.events[i].DrawingState
		}
	}
	t.Fatal("no drawing state event")
	return DrawingState{}
}

func (h *harness) selectionEvents() []bool {
	var out []bool
	for _, ev := range h.events {
		if ev.Type == EventSelectionChanged {
			out = append(out, *ev.IsShapeSelected)
		}
	}
	return out
}

func (h *harness) stroke(id int, pts ...geom.Point) {
	h.NewPath(id, style.Black, 4)
	for i, p := range pts {
		h.AddPoint(p, i > 0)
	}
	h.EndPath()
}

func (h *harness) add(t *testing.T, k entity.Kind) entity.Entity {
	t.Helper()
	if !h.AddEntity(k, EntityOptions{}) {
		t.Fatalf("AddEntity(%s) placed nothing", k)
	}
	return h.Selected()
}

func TestUndoFollowsHistoryAcrossCollections(t *testing.T) {
	h := newHarness(t, 1024, 768)

	h.stroke(1, geom.Pt(40, 700), geom.Pt(80, 720))
	a := h.add(t, entity.KindCircle)
	h.Unselect()
	h.stroke(2, geom.Pt(900, 700), geom.Pt(950, 710))
	bEnt := h.add(t, entity.KindRect)
	h.Unselect()
	h.stroke(3, geom.Pt(100, 650), geom.Pt(120, 600))

	want := []string{"1", a.ID(), "2", bEnt.ID(), "3"}
	if got := h.History(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("history = %v, want %v", got, want)
	}

	for i := len(want) - 1; i >= 0; i-- {
		h.Undo()
		got := h.History()
		if len(got) != i {
			t.Fatalf("after undo history = %v, want %d items", got, i)
		}
		if strings.Join(got, ",") != strings.Join(want[:i], ",") {
			t.Fatalf("undo removed the wrong item: %v", got)
		}
	}
	if len(h.Paths()) != 0 || len(h.Entities()) != 0 {
		t.Errorf("paths=%d entities=%d after undoing everything", len(h.Paths()), len(h.Entities()))
	}
	if h.CanUndo() {
		t.Error("CanUndo on an empty board")
	}
}

func TestUndoKeepsHistoryOrderWithSelection(t *testing.T) {
	h := newHarness(t, 1024, 768)
	h.stroke(1, geom.Pt(40, 700), geom.Pt(80, 720))
	circle := h.add(t, entity.KindCircle)
	h.AddPath(2, style.Black, 4, []geom.Point{geom.Pt(900, 700), geom.Pt(950, 710)})
	if h.Selected() != circle {
		t.Fatal("circle should still be selected")
	}

	h.Undo()
	want := []string{"1", circle.ID()}
	if got := h.History(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("history = %v, want %v", got, want)
	}
	if len(h.Entities()) != 1 || len(h.Paths()) != 1 {
		t.Errorf("entities=%d paths=%d", len(h.Entities()), len(h.Paths()))
	}

	// the selection is now the newest item
	h.Undo()
	if len(h.Entities()) != 0 || h.Selected() != nil {
		t.Error("selected circle survived undo")
	}
	if got := h.History(); len(got) != 1 || got[0] != "1" {
		t.Errorf("history = %v", got)
	}
}

func TestUndoTargetsSelectionUnderConstruction(t *testing.T) {
	h := newHarness(t, 1024, 768)
	mt := h.add(t, entity.KindMeasurementTool).(*entity.MeasureTool)
	h.OnTap(geom.Pt(100, 600))
	h.AddPath(1, style.Black, 4, []geom.Point{geom.Pt(900, 700), geom.Pt(950, 710)})

	h.Undo()
	if len(h.Paths()) != 1 {
		t.Error("undo removed the stroke instead of the measurement point")
	}
	if len(mt.Points()) != 0 {
		t.Errorf("points = %d", len(mt.Points()))
	}
}

func TestDeleteSelectedWaitsForConstruction(t *testing.T) {
	h := newHarness(t, 1024, 768)
	mt := h.add(t, entity.KindMeasurementTool).(*entity.MeasureTool)
	h.OnTap(geom.Pt(100, 600))

	if err := h.Apply(Command{Action: ActionDeleteSelected}); err != nil {
		t.Fatal(err)
	}
	if len(h.Entities()) != 1 || h.Measuring() != mt {
		t.Fatal("measurement deleted while being built")
	}

	h.OnTap(geom.Pt(400, 600))
	h.OnTap(geom.Pt(400, 600))
	if h.Selected() != mt {
		t.Fatal("finished measurement not selected")
	}
	h.DeleteSelected()
	if len(h.Entities()) != 0 {
		t.Error("finished measurement not deleted")
	}
}

func TestMeasurementLabel(t *testing.T) {
	h := newHarness(t, 1024, 768)
	mt := h.add(t, entity.KindMeasurementTool).(*entity.MeasureTool)

	label := "12 cm"
	h.OnTap(geom.Pt(100, 600))
	if err := h.Apply(Command{Action: ActionChangeText, Text: &label}); err != nil {
		t.Fatal(err)
	}
	if mt.Label() != "" {
		t.Error("label set before both endpoints exist")
	}

	h.OnTap(geom.Pt(400, 600))
	h.OnTap(geom.Pt(400, 600))
	if h.Selected() != mt {
		t.Fatal("finished measurement not selected")
	}
	if err := h.Apply(Command{Action: ActionChangeText, Text: &label}); err != nil {
		t.Fatal(err)
	}
	if mt.Label() != label {
		t.Fatalf("label = %q", mt.Label())
	}

	dst := image.NewRGBA(image.Rect(0, 0, 1024, 768))
	h.Render(dst)

	h.Undo()
	if mt.Label() != "" {
		t.Errorf("label = %q after undo", mt.Label())
	}
	if len(h.Entities()) != 1 || len(mt.Points()) != 2 {
		t.Errorf("entities=%d points=%d", len(h.Entities()), len(mt.Points()))
	}
}

func TestRenderIfDirty(t *testing.T) {
	h := newHarness(t, 100, 100)
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))

	if !h.RenderIfDirty(dst) {
		t.Fatal("new board should need a first paint")
	}
	if h.RenderIfDirty(dst) {
		t.Error("repainted without changes")
	}

	h.NewPath(1, style.Black, 4)
	h.TakeDirty()
	h.AddPoint(geom.Pt(20, 20), false)
	h.AddPoint(geom.Pt(60, 30), true)
	if r := h.TakeDirty(); r.Empty() || r.Width >= 100 {
		t.Errorf("dirty area = %+v, want the segment only", r)
	}

	h.EndPath()
	h.Render(dst)
	if c := dst.RGBAAt(40, 25); c.A == 0 {
		t.Error("stroke not painted")
	}

	h.Undo()
	if !h.RenderIfDirty(dst) {
		t.Error("undo did not mark the board dirty")
	}
	if c := dst.RGBAAt(40, 25); c.A != 0 {
		t.Errorf("undone stroke still visible: %v", c)
	}
}

func TestFindEntityAtTopMostWins(t *testing.T) {
	h := newHarness(t, 1024, 768)
	circle := h.add(t, entity.KindCircle)
	square := h.add(t, entity.KindSquare)

	p := geom.Pt(512, 192)
	if got := h.FindEntityAt(p); got != square {
		t.Fatalf("FindEntityAt = %v, want the newer square", got)
	}

	square.Layer().PostTranslate(0.5, 0.5)
	if got := h.FindEntityAt(p); got != circle {
		t.Errorf("FindEntityAt after moving square = %v, want circle", got)
	}
	if got := h.FindEntityAt(geom.Pt(5, 5)); got != nil {
		t.Errorf("FindEntityAt on empty canvas = %v", got)
	}
}

func TestAddEntityPlacement(t *testing.T) {
	h := newHarness(t, 1024, 768)
	e := h.add(t, entity.KindCircle)

	c := e.AbsoluteCenter()
	if math.Abs(c.X-512) > 1e-6 || math.Abs(c.Y-192) > 1e-6 {
		t.Errorf("center = %v, want (512, 192)", c)
	}
	if e.Layer().Scale != entity.InitialEntityScale {
		t.Errorf("scale = %v", e.Layer().Scale)
	}
	if !e.Selected() {
		t.Error("new entity not selected")
	}

	mt := h.add(t, entity.KindMeasurementTool)
	if h.Measuring() != mt {
		t.Fatal("measurement tool not under construction")
	}
	h.add(t, entity.KindTriangle)
	for _, got := range h.Entities() {
		if got == mt {
			t.Error("unfinished measurement kept after adding another entity")
		}
	}
	for _, id := range h.History() {
		if id == mt.ID() {
			t.Error("unfinished measurement kept in history")
		}
	}

	if h.AddEntity(entity.KindImage, EntityOptions{ImageAsset: "a.png"}) {
		t.Error("image entity reported as placed")
	}
}

func TestAddEntityWithoutCanvas(t *testing.T) {
	h := newHarness(t, 0, 0)
	if h.AddEntity(entity.KindCircle, EntityOptions{}) {
		t.Error("entity placed on a board without size")
	}
	if _, err := h.Flatten(FlattenOptions{}); !errors.Is(err, ErrNoCanvas) {
		t.Errorf("Flatten error = %v", err)
	}
}

func TestTranslateClampsPerAxis(t *testing.T) {
	h := newHarness(t, 1024, 768)
	e := h.add(t, entity.KindCircle)

	tests := []struct {
		name  string
		delta geom.Point
		want  geom.Point
	}{
		{"x out of bounds keeps y", geom.Pt(600, 10), geom.Pt(512, 202)},
		{"y out of bounds keeps x", geom.Pt(10, -300), geom.Pt(522, 202)},
		{"both in bounds", geom.Pt(-22, 98), geom.Pt(500, 300)},
		{"both out", geom.Pt(-1000, 1000), geom.Pt(500, 300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.OnMove(tt.delta)
			got := e.AbsoluteCenter()
			if math.Abs(got.X-tt.want.X) > 1e-6 || math.Abs(got.Y-tt.want.Y) > 1e-6 {
				t.Errorf("center = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScaleAndRotateApplyToSelection(t *testing.T) {
	h := newHarness(t, 1024, 768)
	if h.OnScale(2, geom.Point{}) || h.OnRotate(10) || h.OnMove(geom.Pt(1, 1)) {
		t.Fatal("gestures consumed with nothing selected")
	}

	e := h.add(t, entity.KindSquare)
	h.OnScale(1.5, geom.Point{})
	if got := e.Layer().Scale; math.Abs(got-0.6) > 1e-9 {
		t.Errorf("scale = %v, want 0.6", got)
	}
	h.OnRotate(-30)
	if got := e.Layer().Rotation; got != 30 {
		t.Errorf("rotation = %v, want 30", got)
	}
}

func TestDeselectNotificationIsDebounced(t *testing.T) {
	h := newHarness(t, 1024, 768)
	circle := h.add(t, entity.KindCircle)
	center := circle.AbsoluteCenter()

	h.OnTap(geom.Pt(5, 700))
	if got := h.selectionEvents(); len(got) != 1 || !got[0] {
		t.Fatalf("selection events before delay = %v", got)
	}

	// reselecting before the delay voids the pending event
	h.OnTap(center)
	h.clock.fire()
	if got := h.selectionEvents(); len(got) != 2 || !got[1] {
		t.Fatalf("stale deselect delivered: %v", got)
	}

	h.OnTap(geom.Pt(5, 700))
	h.clock.fire()
	got := h.selectionEvents()
	if len(got) != 3 || got[2] {
		t.Errorf("selection events = %v, want a trailing false", got)
	}
}

func TestDrawingStateEvents(t *testing.T) {
	h := newHarness(t, 1024, 768)

	h.NewPath(1, style.Black, 3)
	h.AddPoint(geom.Pt(10, 700), false)
	if ds := h.lastDrawingState(t); ds.ShapeType != "stroke" || ds.DrawingStep != 0 || ds.CanDelete {
		t.Errorf("stroke in progress = %+v", ds)
	}
	h.EndPath()
	if ds := h.lastDrawingState(t); ds.DrawingStep != 1 || !ds.CanUndo {
		t.Errorf("stroke ended = %+v", ds)
	}

	h.add(t, entity.KindArrow)
	want := DrawingState{CanUndo: true, CanDelete: true, ShapeType: "Arrow", DrawingStep: entity.CompleteStep}
	if ds := h.lastDrawingState(t); ds != want {
		t.Errorf("arrow = %+v, want %+v", ds, want)
	}

	h.add(t, entity.KindMeasurementTool)
	want = DrawingState{CanUndo: true, ShapeType: "MeasurementTool", DrawingStep: 0}
	if ds := h.lastDrawingState(t); ds != want {
		t.Errorf("measurement = %+v, want %+v", ds, want)
	}

	// strokes do not report while something is selected
	n := len(h.events)
	h.EndPath()
	for _, ev := range h.events[n:] {
		if ev.Type == EventDrawingState {
			t.Errorf("stroke state sent while selected: %+v", *ev.DrawingState)
		}
	}
}

func TestMeasurementLifecycle(t *testing.T) {
	h := newHarness(t, 1024, 768)
	mt := h.add(t, entity.KindMeasurementTool).(*entity.MeasureTool)

	h.OnTap(geom.Pt(100, 600))
	if ds := h.lastDrawingState(t); ds.DrawingStep != 1 {
		t.Errorf("after one point step = %d", ds.DrawingStep)
	}
	h.OnTap(geom.Pt(400, 600))
	if h.Measuring() != nil || h.Selected() != nil {
		t.Fatal("finished measurement still active")
	}
	if ds := h.lastDrawingState(t); ds.ShapeType != "" || ds.DrawingStep != entity.CompleteStep {
		t.Errorf("after completion = %+v", ds)
	}

	// drag the first endpoint
	at := time.Unix(0, 0)
	h.OnTap(geom.Pt(100, 600))
	if h.Selected() != mt {
		t.Fatal("tap near an endpoint did not select the measurement")
	}
	h.HandleTouch(gesture.Single(gesture.ActionDown, 100, 600, at))
	h.HandleTouch(gesture.Single(gesture.ActionMove, 150, 620, at.Add(10*time.Millisecond)))
	h.HandleTouch(gesture.Single(gesture.ActionUp, 150, 620, at.Add(20*time.Millisecond)))
	pts := mt.Points()
	if pts[0].Point != geom.Pt(150, 620) || !pts[0].Visited {
		t.Errorf("endpoint = %+v", pts[0])
	}
	if mt.Focused() {
		t.Error("endpoint still focused after release")
	}

	// undo walks the points back and finally removes the tool
	h.Unselect()
	h.Undo()
	if h.Measuring() != mt || len(mt.Points()) != 1 {
		t.Fatalf("first undo: measuring=%v points=%d", h.Measuring(), len(mt.Points()))
	}
	if ds := h.lastDrawingState(t); ds.CanDelete {
		t.Error("delete offered during undo")
	}
	h.Undo()
	if len(h.Entities()) != 0 || h.CanUndo() {
		t.Errorf("tool survived: entities=%d", len(h.Entities()))
	}
}

func TestTouchDrawsOnEmptyCanvas(t *testing.T) {
	h := newHarness(t, 320, 240)
	h.SetBrush(style.NewPaint(style.MustColor("#ff0000"), 6))

	at := time.Unix(0, 0)
	h.HandleTouch(gesture.Single(gesture.ActionDown, 20, 200, at))
	h.HandleTouch(gesture.Single(gesture.ActionMove, 60, 210, at.Add(10*time.Millisecond)))
	h.HandleTouch(gesture.Single(gesture.ActionMove, 90, 220, at.Add(20*time.Millisecond)))
	h.HandleTouch(gesture.Single(gesture.ActionUp, 90, 220, at.Add(30*time.Millisecond)))

	paths := h.Paths()
	if len(paths) != 1 || len(paths[0].Points) != 3 {
		t.Fatalf("paths = %+v", paths)
	}
	if paths[0].ID >= 0 {
		t.Errorf("touch stroke id = %d, want a negative local id", paths[0].ID)
	}
	if got := h.History(); len(got) != 1 || got[0] != paths[0].Key() {
		t.Errorf("history = %v", got)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 320, 240))
	h.Render(dst)
	if c := dst.RGBAAt(60, 210); c.R < 200 || c.A < 200 {
		t.Errorf("stroke pixel = %v", c)
	}

	// a touch that starts on an entity does not draw
	h.add(t, entity.KindCircle)
	h.Unselect()
	h.HandleTouch(gesture.Single(gesture.ActionDown, 160, 60, at.Add(time.Second)))
	h.HandleTouch(gesture.Single(gesture.ActionUp, 160, 60, at.Add(time.Second+50*time.Millisecond)))
	if len(h.Paths()) != 1 {
		t.Errorf("touch on an entity started a stroke")
	}
	if h.Selected() == nil {
		t.Error("tap on an entity did not select it")
	}
}

func TestEraserClearsStrokes(t *testing.T) {
	h := newHarness(t, 100, 100)
	h.stroke(1, geom.Pt(10, 50), geom.Pt(90, 50))
	h.NewPath(2, style.Transparent, 20)
	h.AddPoint(geom.Pt(50, 50), false)
	h.EndPath()

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	h.Render(dst)
	if c := dst.RGBAAt(50, 50); c.A != 0 {
		t.Errorf("erased pixel = %v", c)
	}
	if c := dst.RGBAAt(15, 50); c.A == 0 {
		t.Error("pixel outside the eraser was cleared")
	}

	h.DeletePath(2)
	clear(dst.Pix)
	h.Render(dst)
	if c := dst.RGBAAt(50, 50); c.A == 0 {
		t.Error("stroke not restored after deleting the eraser")
	}
}

func TestAddPathIgnoresDuplicates(t *testing.T) {
	h := newHarness(t, 100, 100)
	pts := []geom.Point{geom.Pt(1, 1), geom.Pt(50, 50)}
	h.AddPath(7, style.Black, 2, pts)
	h.AddPath(7, style.Black, 2, pts)
	if len(h.Paths()) != 1 || len(h.History()) != 1 {
		t.Errorf("paths=%d history=%d", len(h.Paths()), len(h.History()))
	}
}

func TestFlattenMatchesRender(t *testing.T) {
	h := newHarness(t, 240, 180)
	e := h.add(t, entity.KindCircle)
	h.Unselect()
	e.MoveToCanvasCenter()

	direct := image.NewRGBA(image.Rect(0, 0, 240, 180))
	h.Render(direct)
	flat, err := h.Flatten(FlattenOptions{Transparent: true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(direct.Pix, flat.Pix) {
		t.Error("flattened pixels differ from direct render")
	}

	var painted bool
	for i := 3; i < len(flat.Pix); i += 4 {
		if flat.Pix[i] != 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Error("circle drew nothing")
	}
}

func TestFlattenCropsToBackground(t *testing.T) {
	h := newHarness(t, 200, 100)
	h.SetBackground(image.NewRGBA(image.Rect(0, 0, 50, 80)), geom.AspectFit)

	img, err := h.Flatten(FlattenOptions{IncludeImage: true, CropToImageSize: true})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 80 {
		t.Errorf("cropped size = %v", img.Bounds())
	}
	img, _ = h.Flatten(FlattenOptions{})
	if img.Bounds().Dx() != 200 {
		t.Errorf("uncropped size = %v", img.Bounds())
	}
	if c := img.RGBAAt(0, 0); c.A != 255 || c.R != 255 {
		t.Errorf("opaque export background = %v", c)
	}
}

func TestRotateQuarter(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Pix[3] = 255 // (0,0) opaque

	tests := []struct {
		deg  int
		w, h int
		x, y int
	}{
		{90, 2, 3, 1, 0},
		{180, 3, 2, 2, 1},
		{270, 2, 3, 0, 2},
		{-90, 2, 3, 0, 2},
	}
	for _, tt := range tests {
		got := rotateQuarter(src, tt.deg).(*image.RGBA)
		if got.Bounds().Dx() != tt.w || got.Bounds().Dy() != tt.h {
			t.Errorf("%d: size %v", tt.deg, got.Bounds())
			continue
		}
		if got.RGBAAt(tt.x, tt.y).A != 255 {
			t.Errorf("%d: corner not at (%d,%d)", tt.deg, tt.x, tt.y)
		}
	}
	if rotateQuarter(src, 360) != image.Image(src) {
		t.Error("full turn copied the image")
	}
}

func TestCanvasTextLayout(t *testing.T) {
	h := newHarness(t, 400, 300)
	h.SetCanvasText([]TextBlock{{
		Text:       "Title\nA much longer line",
		FontSize:   20,
		FontColor:  "#ff0000",
		Position:   &Vec{X: 0.5, Y: 0.5},
		Anchor:     &Vec{X: 0.5, Y: 0.5},
		Coordinate: CoordinateRatio,
		Alignment:  AlignCenter,
		Overlay:    OverlayTextOnSketch,
	}, {
		Text:     "under",
		FontSize: 12,
	}})

	if len(h.texts.textOnSketch) != 2 || len(h.texts.sketchOnText) != 1 {
		t.Fatalf("overlay split = %d/%d", len(h.texts.textOnSketch), len(h.texts.sketchOnText))
	}
	first, second := h.texts.textOnSketch[0], h.texts.textOnSketch[1]
	if second.LineOffset.Y <= first.LineOffset.Y {
		t.Errorf("line offsets %v %v", first.LineOffset, second.LineOffset)
	}
	if first.LineOffset.X <= 0 || second.LineOffset.X != 0 {
		t.Errorf("centered offsets %v %v", first.LineOffset.X, second.LineOffset.X)
	}

	before := first.DrawPosition
	h.SetSize(800, 600)
	if first.DrawPosition == before {
		t.Error("draw position not recomputed on resize")
	}

	h.SetCanvasText([]TextBlock{{Text: "bad", FontColor: "nope"}})
	if len(h.texts.all) != 0 {
		t.Error("block with a bad color was kept")
	}
}

func TestTextEntityCommands(t *testing.T) {
	h := newHarness(t, 640, 480)
	s := "hello"
	h.AddEntity(entity.KindText, EntityOptions{Text: &s, FontSize: 20})
	txt := h.Selected().(*entity.Text)
	if got := txt.TextLayer().Font.Size; got != 0.1 {
		t.Errorf("font size = %v", got)
	}
	h.IncreaseTextFontSize()
	h.DecreaseTextFontSize()
	h.DecreaseTextFontSize()
	if got := txt.TextLayer().Font.Size; math.Abs(got-(0.1-entity.FontSizeStep)) > 1e-9 {
		t.Errorf("font size after steps = %v", got)
	}
	h.SetTextEntityText("")
	h.SetTextEntityText("world")
	if got := txt.TextLayer().Text; got != "world" {
		t.Errorf("text = %q", got)
	}
}

func TestApplyScript(t *testing.T) {
	h := newHarness(t, 0, 0)
	script := `
{"action":"setSize","width":300,"height":200}
{"action":"newPath","id":1,"color":"#00ff00","strokeWidth":4}
{"action":"addPoint","x":10,"y":180}
{"action":"addPoint","x":60,"y":190,"isMove":true}
{"action":"endPath"}
{"action":"setShapeConfiguration","shapeConfiguration":{"shapeBorderStyle":"Solid","shapeStrokeWidth":8}}
{"action":"addShape","shapeType":"Triangle"}
{"action":"unselectShape"}
{"action":"addPath","id":2,"color":"#0000ff","strokeWidth":2,"points":[{"x":1,"y":1},{"x":5,"y":5}]}
{"action":"undo"}
`
	dec := json.NewDecoder(strings.NewReader(script))
	for dec.More() {
		var c Command
		if err := dec.Decode(&c); err != nil {
			t.Fatal(err)
		}
		if err := h.Apply(c); err != nil {
			t.Fatalf("%s: %v", c.Action, err)
		}
	}

	if w, hh := h.Size(); w != 300 || hh != 200 {
		t.Errorf("size = %dx%d", w, hh)
	}
	if len(h.Paths()) != 1 || len(h.Entities()) != 1 {
		t.Errorf("paths=%d entities=%d", len(h.Paths()), len(h.Entities()))
	}
	if h.Paint().StrokeWidth != 8 || h.Paint().Color != style.MustColor("#0000ff") {
		t.Errorf("paint = %+v", h.Paint())
	}
	if h.border.Style != style.Solid {
		t.Errorf("border style = %v", h.border.Style)
	}

	if err := h.Apply(Command{Action: "explode"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown action error = %v", err)
	}
	if err := h.Apply(Command{Action: ActionNewPath, Color: "zz"}); !errors.Is(err, style.ErrBadColor) {
		t.Errorf("bad color error = %v", err)
	}
}

func TestSaveReportsOutcome(t *testing.T) {
	h := newHarness(t, 64, 64)
	h.stroke(1, geom.Pt(5, 5), geom.Pt(60, 60))

	dir := t.TempDir()
	path, err := h.Save("png", dir, "board", FlattenOptions{})
	if err != nil {
		t.Fatal(err)
	}
	last := h.events[len(h.events)-1]
	if last.Type != EventSaved || !*last.Success || last.Path != path {
		t.Errorf("saved event = %+v", last)
	}

	if _, err := h.Save("gif", dir, "board", FlattenOptions{}); err == nil {
		t.Error("gif export succeeded")
	}
	last = h.events[len(h.events)-1]
	if last.Type != EventSaved || *last.Success {
		t.Errorf("failed save event = %+v", last)
	}

	if err := h.Apply(Command{Action: ActionBase64, Format: "jpg"}); err != nil {
		t.Fatal(err)
	}
	last = h.events[len(h.events)-1]
	if last.Type != EventBase64 || last.Data == "" {
		t.Errorf("base64 event = %+v", last.Type)
	}
}

func TestClear(t *testing.T) {
	h := newHarness(t, 200, 200)
	h.stroke(1, geom.Pt(5, 5), geom.Pt(60, 60))
	h.add(t, entity.KindRuler)
	h.Clear()
	if len(h.Paths()) != 0 || len(h.Entities()) != 0 || h.CanUndo() || h.Selected() != nil {
		t.Error("board not empty after Clear")
	}
	last := h.events[len(h.events)-1]
	if last.Type != EventCanvasChanged || *last.PathsUpdate != 0 {
		t.Errorf("clear event = %+v", last)
	}
}
