package entity

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"MarkupBoard/internal/style"
)

// Natural sizes and paddings of the shape variants.
const (
	CircleSize     = 300
	CirclePadding  = 20
	RectWidth      = 600
	RectHeight     = 300
	RectPadding    = 30
	SquareSize     = 600
	TriangleSize   = 600
	ArrowSize      = 600
	RulerSize      = 600
	OutlinePadding = 20
)

// outline traces a variant's path into dc at natural size.
type outline func(dc *gg.Context, w, h, pad float64)

// Shape is a single-shot outlined shape: circle, rect, square, triangle,
// arrow or ruler. The outline is stroked into the buffer and the buffer is
// drawn through the entity matrix.
type Shape struct {
	*motion

	padding     float64
	color       color.NRGBA
	strokeWidth float64
	trace       outline

	buf     buffer
	painted shapeKey
}

// shapeKey is what the buffer was last painted with.
type shapeKey struct {
	color color.NRGBA
	width float64
	scale float64
}

func newShape(kind Kind, canvasW, canvasH, w, h, pad float64, paint style.Paint, trace outline) *Shape {
	s := &Shape{
		motion:      newMotion(kind, NewLayer(), canvasW, canvasH, w, h),
		padding:     pad,
		color:       paint.Color,
		strokeWidth: paint.StrokeWidth,
		trace:       trace,
	}
	s.motion.drawContent = s.drawContent
	return s
}

// NewCircle creates a circle entity.
func NewCircle(canvasW, canvasH float64, paint style.Paint) *Shape {
	return newShape(KindCircle, canvasW, canvasH, CircleSize, CircleSize, CirclePadding, paint, traceCircle)
}

// NewRect creates a rectangle entity of the given natural size.
func NewRect(canvasW, canvasH, w, h float64, paint style.Paint) *Shape {
	return newShape(KindRect, canvasW, canvasH, w, h, RectPadding, paint, traceRect)
}

// NewSquare creates a square entity.
func NewSquare(canvasW, canvasH float64, paint style.Paint) *Shape {
	return newShape(KindSquare, canvasW, canvasH, SquareSize, SquareSize, RectPadding, paint, traceRect)
}

// NewTriangle creates a triangle entity.
func NewTriangle(canvasW, canvasH float64, paint style.Paint) *Shape {
	return newShape(KindTriangle, canvasW, canvasH, TriangleSize, TriangleSize, OutlinePadding, paint, traceTriangle)
}

// NewArrow creates an arrow entity.
func NewArrow(canvasW, canvasH float64, paint style.Paint) *Shape {
	return newShape(KindArrow, canvasW, canvasH, ArrowSize, ArrowSize, OutlinePadding, paint, traceArrow)
}

// NewRuler creates a ruler entity.
func NewRuler(canvasW, canvasH float64, paint style.Paint) *Shape {
	return newShape(KindRuler, canvasW, canvasH, RulerSize, RulerSize, OutlinePadding, paint, traceRuler)
}

// Paint returns the color and stroke width the shape is drawn with.
func (s *Shape) Paint() style.Paint {
	return style.NewPaint(s.color, s.strokeWidth)
}

func (s *Shape) drawContent(dst *image.RGBA, m gg.Matrix, paint style.Paint) {
	if s.selected {
		s.color = paint.Color
		s.strokeWidth = paint.StrokeWidth
	}

	key := shapeKey{color: s.color, width: s.strokeWidth, scale: s.layer.Scale}
	if !s.buf.ready() || key != s.painted {
		s.repaint()
		s.painted = key
	}
	blit(dst, s.buf.img, m, s.color.A)
}

// lineWidth is the stroke width inside the buffer: the paint width divided
// by the layer scale, so pinching does not thicken the outline.
func (s *Shape) lineWidth() float64 {
	if s.layer.Scale > 0 {
		return s.strokeWidth / s.layer.Scale
	}
	return s.strokeWidth
}

func (s *Shape) repaint() {
	dc := s.buf.acquire(int(math.Ceil(s.width)), int(math.Ceil(s.height)))

	dc.SetColor(style.WithAlpha(s.color, 255))
	dc.SetLineWidth(s.lineWidth())
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	s.trace(dc, s.width, s.height, s.padding)
	s.buf.snapshot()
}

func (s *Shape) Release() {
	s.buf.release()
}

func traceCircle(dc *gg.Context, w, h, pad float64) {
	r := math.Min(w, h)/2 - pad
	dc.DrawCircle(w/2, h/2, r)
	stroke(dc)
}

func traceRect(dc *gg.Context, w, h, pad float64) {
	dc.DrawRectangle(pad, pad, w-2*pad, h-2*pad)
	stroke(dc)
}

func traceTriangle(dc *gg.Context, w, h, pad float64) {
	dc.MoveTo(w/2, pad)
	dc.LineTo(w-pad, h-pad)
	dc.LineTo(pad, h-pad)
	dc.ClosePath()
	stroke(dc)
}

// traceArrow draws a shaft from the lower left to the upper right corner
// with an open head.
func traceArrow(dc *gg.Context, w, h, pad float64) {
	fromX, fromY := pad, h-pad
	toX, toY := w-pad, pad

	dc.MoveTo(fromX, fromY)
	dc.LineTo(toX, toY)

	head := math.Min(w, h) / 8
	angle := math.Atan2(toY-fromY, toX-fromX)
	for _, side := range []float64{-1, 1} {
		a := angle + math.Pi - side*math.Pi/6
		dc.MoveTo(toX, toY)
		dc.LineTo(toX+head*math.Cos(a), toY+head*math.Sin(a))
	}
	stroke(dc)
}

// traceRuler draws a horizontal baseline through the middle with end caps
// and a tick every twentieth of the length, longer on every fifth.
func traceRuler(dc *gg.Context, w, h, pad float64) {
	y := h / 2
	length := w - 2*pad
	capH := h / 12

	dc.MoveTo(pad, y)
	dc.LineTo(w-pad, y)
	dc.MoveTo(pad, y-capH)
	dc.LineTo(pad, y+capH)
	dc.MoveTo(w-pad, y-capH)
	dc.LineTo(w-pad, y+capH)

	const ticks = 20
	for i := 1; i < ticks; i++ {
		x := pad + length*float64(i)/ticks
		tick := capH / 2
		if i%5 == 0 {
			tick = capH
		}
		dc.MoveTo(x, y)
		dc.LineTo(x, y-tick)
	}
	stroke(dc)
}
