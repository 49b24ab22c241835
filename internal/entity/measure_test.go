package entity

import (
	"image"
	"testing"

	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/style"
)

func TestMeasureToolConstruction(t *testing.T) {
	mt := NewMeasureTool(testW, testH, style.DefaultPaint())

	if mt.DrawingStep() != 0 {
		t.Fatalf("empty step = %d", mt.DrawingStep())
	}
	if mt.SetLabel("too early") {
		t.Error("label accepted before both points")
	}
	if mt.AddPoint(geom.Pt(100, 100)) {
		t.Error("first point reported complete")
	}
	if mt.DrawingStep() != 1 {
		t.Errorf("step after one point = %d", mt.DrawingStep())
	}
	if !mt.AddPoint(geom.Pt(400, 100)) {
		t.Error("second point should complete the measurement")
	}
	if mt.DrawingStep() != CompleteStep {
		t.Errorf("step after two points = %d", mt.DrawingStep())
	}
	if !mt.AddPoint(geom.Pt(500, 500)) {
		t.Error("third point should still report complete")
	}
	if n := len(mt.Points()); n != 2 {
		t.Fatalf("points = %d, third AddPoint must be a no-op", n)
	}
	if mt.Length() != 300 {
		t.Errorf("length = %v", mt.Length())
	}
}

func TestMeasureToolUndo(t *testing.T) {
	mt := NewMeasureTool(testW, testH, style.DefaultPaint())
	mt.AddPoint(geom.Pt(10, 10))
	mt.AddPoint(geom.Pt(20, 20))
	mt.SetLabel("12 cm")

	if !mt.Undo() || mt.Label() != "" || len(mt.Points()) != 2 {
		t.Fatal("first undo should only drop the label")
	}
	if !mt.Undo() || len(mt.Points()) != 1 {
		t.Fatal("second undo should drop one point and survive")
	}
	if mt.Undo() {
		t.Fatal("undo of the last point should report the entity removable")
	}
	if mt.Undo() {
		t.Fatal("undo on an empty tool should report removable")
	}
}

func TestMeasureToolHitAndDrag(t *testing.T) {
	mt := NewMeasureTool(testW, testH, style.DefaultPaint())
	mt.AddPoint(geom.Pt(100, 100))
	mt.AddPoint(geom.Pt(300, 100))

	if !mt.Matrix().IsIdentity() {
		t.Error("measure tool matrix should be identity")
	}
	if !mt.HitTest(geom.Pt(130, 130)) {
		t.Error("touch within the radius should hit")
	}
	if mt.HitTest(geom.Pt(200, 100)) {
		t.Error("middle of the segment is not an endpoint")
	}

	if mt.HandleTranslate(geom.Pt(5, 5)) {
		t.Error("translate without focus should do nothing")
	}
	if !mt.FocusAt(geom.Pt(290, 110)) {
		t.Fatal("focus near the second endpoint failed")
	}
	if !mt.HandleTranslate(geom.Pt(10, -20)) {
		t.Fatal("translate of focused endpoint failed")
	}
	pts := mt.Points()
	if pts[1].Point != geom.Pt(310, 80) || !pts[1].Visited || pts[0].Visited {
		t.Errorf("points = %+v", pts)
	}

	mt.HandleTranslate(geom.Pt(5000, 5000))
	if p := mt.Points()[1].Point; p.X != testW || p.Y != testH {
		t.Errorf("drag should stay on the canvas, got %v", p)
	}
	mt.ReleaseFocus()
	if mt.Focused() {
		t.Error("focus not released")
	}
}

func TestMeasureToolDraw(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	mt := NewMeasureTool(400, 400, style.DefaultPaint())
	mt.AddPoint(geom.Pt(100, 300))
	mt.AddPoint(geom.Pt(300, 300))
	mt.SetLabel("20")
	mt.FocusAt(geom.Pt(300, 300))
	mt.Draw(dst, style.DefaultPaint())

	if dst.RGBAAt(200, 300).A == 0 {
		t.Error("segment between endpoints not drawn")
	}
	if dst.RGBAAt(300, 300-lensOffset).A == 0 {
		t.Error("zoom lens not drawn above the focused endpoint")
	}
}
