package entity

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/style"
)

const (
	// MeasurePoints is the number of endpoints of a finished measurement.
	MeasurePoints = 2
	// DefaultTouchRadius is how close a touch must land to grab an endpoint.
	DefaultTouchRadius = 50

	pointRadius = 16
	ringRadius  = 20
	ringWidth   = 2

	lensRadius = 60
	lensZoom   = 2
	lensOffset = 2 * lensRadius

	labelSize = 24
)

// MeasurePoint is one endpoint of a measurement.
type MeasurePoint struct {
	geom.Point
	// Visited is set once the user has grabbed the endpoint.
	Visited bool
}

// MeasureTool is built by successive taps: two endpoints, then an optional
// label. It lives in canvas space, so its matrix is the identity and its
// hit test targets the endpoints rather than a bounding box.
type MeasureTool struct {
	*motion

	points      []MeasurePoint
	label       string
	focused     int
	touchRadius float64

	color       color.NRGBA
	strokeWidth float64

	buf     buffer
	painted measureKey
}

type measureKey struct {
	color  color.NRGBA
	width  float64
	points [MeasurePoints]MeasurePoint
	count  int
}

// NewMeasureTool creates an empty measurement covering the canvas.
func NewMeasureTool(canvasW, canvasH float64, paint style.Paint) *MeasureTool {
	mt := &MeasureTool{
		motion:      newMotion(KindMeasurementTool, NewLayer(), canvasW, canvasH, canvasW, canvasH),
		focused:     -1,
		touchRadius: DefaultTouchRadius,
		color:       paint.Color,
		strokeWidth: paint.StrokeWidth,
	}
	mt.identity = true
	mt.motion.drawContent = mt.drawContent
	return mt
}

// SetTouchRadius changes the endpoint grab radius.
func (mt *MeasureTool) SetTouchRadius(r float64) {
	if r > 0 {
		mt.touchRadius = r
	}
}

// AddPoint appends an endpoint and reports whether the measurement now has
// both endpoints. Once complete, further points are ignored.
func (mt *MeasureTool) AddPoint(p geom.Point) bool {
	if len(mt.points) < MeasurePoints {
		mt.points = append(mt.points, MeasurePoint{Point: p})
	}
	return len(mt.points) == MeasurePoints
}

// SetLabel attaches a label. It only applies once both endpoints exist.
func (mt *MeasureTool) SetLabel(label string) bool {
	if len(mt.points) < MeasurePoints {
		return false
	}
	mt.label = label
	return true
}

func (mt *MeasureTool) Label() string {
	return mt.label
}

// Points returns a copy of the endpoints.
func (mt *MeasureTool) Points() []MeasurePoint {
	out := make([]MeasurePoint, len(mt.points))
	copy(out, mt.points)
	return out
}

// Length is the distance between the endpoints, zero until both exist.
func (mt *MeasureTool) Length() float64 {
	if len(mt.points) < MeasurePoints {
		return 0
	}
	return geom.Distance(mt.points[0].Point, mt.points[1].Point)
}

func (mt *MeasureTool) DrawingStep() int {
	if len(mt.points) < MeasurePoints {
		return len(mt.points)
	}
	return CompleteStep
}

// Undo removes the label if there is one, otherwise the latest endpoint.
// It reports whether anything is left.
func (mt *MeasureTool) Undo() bool {
	if mt.label != "" {
		mt.label = ""
		return true
	}
	if len(mt.points) == 0 {
		return false
	}
	mt.points = mt.points[:len(mt.points)-1]
	if mt.focused >= len(mt.points) {
		mt.focused = -1
	}
	return len(mt.points) > 0
}

func (mt *MeasureTool) Release() {
	mt.buf.release()
}

// nearest returns the index of the closest endpoint within the touch radius.
func (mt *MeasureTool) nearest(p geom.Point) int {
	best := -1
	bestDist := mt.touchRadius
	for i, pt := range mt.points {
		if d := geom.Distance(pt.Point, p); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func (mt *MeasureTool) HitTest(p geom.Point) bool {
	return mt.nearest(p) >= 0
}

// FocusAt grabs the endpoint under p for dragging.
func (mt *MeasureTool) FocusAt(p geom.Point) bool {
	mt.focused = mt.nearest(p)
	if mt.focused < 0 {
		return false
	}
	mt.points[mt.focused].Visited = true
	return true
}

// Focused reports whether an endpoint is being dragged.
func (mt *MeasureTool) Focused() bool {
	return mt.focused >= 0
}

// HandleTranslate drags the focused endpoint by delta, kept on the canvas.
func (mt *MeasureTool) HandleTranslate(delta geom.Point) bool {
	if mt.focused < 0 || mt.focused >= len(mt.points) {
		return false
	}
	p := &mt.points[mt.focused]
	p.X = math.Min(math.Max(p.X+delta.X, 0), mt.canvasW)
	p.Y = math.Min(math.Max(p.Y+delta.Y, 0), mt.canvasH)
	return true
}

// ReleaseFocus ends an endpoint drag.
func (mt *MeasureTool) ReleaseFocus() {
	mt.focused = -1
}

func (mt *MeasureTool) key() measureKey {
	k := measureKey{color: mt.color, width: mt.strokeWidth, count: len(mt.points)}
	copy(k.points[:], mt.points)
	return k
}

func (mt *MeasureTool) drawContent(dst *image.RGBA, m gg.Matrix, paint style.Paint) {
	if mt.selected {
		mt.color = paint.Color
		mt.strokeWidth = paint.StrokeWidth
	}

	if k := mt.key(); !mt.buf.ready() || k != mt.painted {
		mt.repaint()
		mt.painted = k
	}
	blit(dst, mt.buf.img, m, mt.color.A)

	if mt.label != "" && len(mt.points) == MeasurePoints {
		mt.drawLabel(dst)
	}
	if mt.focused >= 0 && mt.focused < len(mt.points) {
		drawLens(dst, mt.points[mt.focused].Point, mt.color)
	}
}

func (mt *MeasureTool) repaint() {
	dc := mt.buf.acquire(int(math.Ceil(mt.width)), int(math.Ceil(mt.height)))
	dc.SetColor(style.WithAlpha(mt.color, 255))
	dc.SetLineJoin(gg.LineJoinBevel)

	for i, p := range mt.points {
		if i > 0 {
			prev := mt.points[i-1]
			dc.SetLineWidth(mt.strokeWidth)
			dc.DrawLine(prev.X, prev.Y, p.X, p.Y)
			stroke(dc)
		}
		dc.DrawCircle(p.X, p.Y, pointRadius)
		fill(dc)
		dc.SetLineWidth(ringWidth)
		dc.DrawCircle(p.X, p.Y, ringRadius)
		stroke(dc)
	}
	mt.buf.snapshot()
}

// drawLabel letters the label centered above the segment midpoint.
func (mt *MeasureTool) drawLabel(dst *image.RGBA) {
	face, err := style.Face(style.FaceRegular, labelSize)
	if err != nil {
		log.Printf("[ENTITY] measure label: %v", err)
		return
	}
	mid := geom.Midpoint(mt.points[0].Point, mt.points[1].Point)
	width := font.MeasureString(face, mt.label)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.WithAlpha(mt.color, 255)),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(mid.X)) - width/2,
			Y: fixed.I(int(mid.Y - ringRadius)),
		},
	}
	d.DrawString(mt.label)
}

// drawLens magnifies the area around p into a circle drawn above it.
func drawLens(dst *image.RGBA, p geom.Point, ring color.NRGBA) {
	srcR := lensRadius / lensZoom
	src := image.Rect(int(p.X)-srcR, int(p.Y)-srcR, int(p.X)+srcR, int(p.Y)+srcR).Intersect(dst.Bounds())
	if src.Empty() {
		return
	}
	patch := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(patch, patch.Bounds(), dst, src.Min, draw.Src)

	cx, cy := int(p.X), int(p.Y)-lensOffset
	lens := image.Rect(cx-lensRadius, cy-lensRadius, cx+lensRadius, cy+lensRadius)
	size := 2 * lensRadius

	maskDC, maskPM := newCanvas(size, size)
	defer maskDC.Close()
	maskDC.SetColor(color.White)
	maskDC.DrawCircle(lensRadius, lensRadius, lensRadius)
	fill(maskDC)
	mask := maskPM.ToImage()

	ringDC, ringPM := newCanvas(size, size)
	defer ringDC.Close()
	ringDC.SetColor(style.WithAlpha(ring, 255))
	ringDC.SetLineWidth(ringWidth)
	ringDC.DrawCircle(lensRadius, lensRadius, lensRadius-ringWidth)
	stroke(ringDC)

	draw.DrawMask(dst, lens, image.NewUniform(color.White), image.Point{}, mask, image.Point{}, draw.Over)
	draw.BiLinear.Scale(dst, lens, patch, patch.Bounds(), draw.Over, &draw.Options{
		DstMask:  mask,
		DstMaskP: image.Pt(-lens.Min.X, -lens.Min.Y),
	})
	draw.Draw(dst, lens, ringPM.ToImage(), image.Point{}, draw.Over)
}
