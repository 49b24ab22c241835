// Package entity implements the selectable, transformable objects placed on
// the board: shapes, text and the measurement tool. Every variant shares the
// same matrix build, hit test and selection border through motion.
package entity

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/style"
)

// CompleteStep is the drawing step of an entity that needs no further
// construction.
const CompleteStep = -1

// Entity is the capability set every variant provides to the board.
type Entity interface {
	ID() string
	Kind() Kind
	Layer() *Layer

	// Size is the natural, untransformed size of the content.
	Size() (w, h float64)
	Matrix() gg.Matrix
	SourceQuad() [4]geom.Point
	DestinationQuad() [4]geom.Point
	HitTest(p geom.Point) bool

	// Draw renders the content and, when selected, the border.
	Draw(dst *image.RGBA, paint style.Paint)

	// DrawingStep reports construction progress, CompleteStep when done.
	DrawingStep() int
	// Undo rolls back one construction step. False means nothing was left
	// to roll back and the caller should remove the entity.
	Undo() bool
	// Release frees the raster buffer. It is safe to call more than once.
	Release()

	Selected() bool
	SetSelected(selected bool)
	SetBorder(b style.Border)

	AbsoluteCenter() geom.Point
	MoveCenterTo(p geom.Point)
	MoveToCanvasCenter()
}

// motion is the state shared by all variants.
type motion struct {
	id        string
	kind      Kind
	layer     *Layer
	canvasW   float64
	canvasH   float64
	width     float64
	height    float64
	holyScale float64
	selected  bool
	border    style.Border

	// identity pins the matrix to identity for content already laid out in
	// canvas space.
	identity bool

	drawContent func(dst *image.RGBA, m gg.Matrix, paint style.Paint)
}

func newMotion(kind Kind, layer *Layer, canvasW, canvasH, width, height float64) *motion {
	m := &motion{
		id:      uuid.NewString(),
		kind:    kind,
		layer:   layer,
		canvasW: canvasW,
		canvasH: canvasH,
		border:  style.DefaultBorder(),
	}
	m.setSize(width, height)
	return m
}

// setSize updates the natural size and refits holyScale to the canvas.
func (m *motion) setSize(width, height float64) {
	m.width = width
	m.height = height
	m.holyScale = fitScale(m.canvasW, m.canvasH, width, height)
}

func fitScale(canvasW, canvasH, width, height float64) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return math.Min(canvasW/width, canvasH/height)
}

func (m *motion) ID() string {
	return m.id
}

func (m *motion) Kind() Kind {
	return m.kind
}

func (m *motion) Layer() *Layer {
	return m.layer
}

func (m *motion) Size() (float64, float64) {
	return m.width, m.height
}

// HolyScale is the fit factor fixed when the natural size was set.
func (m *motion) HolyScale() float64 {
	return m.holyScale
}

func (m *motion) Selected() bool {
	return m.selected
}

func (m *motion) SetSelected(selected bool) {
	m.selected = selected
}

func (m *motion) SetBorder(b style.Border) {
	m.border = b
}

func (m *motion) topLeft() geom.Point {
	return geom.Pt(m.layer.X*m.canvasW, m.layer.Y*m.canvasH)
}

// AbsoluteCenter is the untransformed content center in canvas pixels.
func (m *motion) AbsoluteCenter() geom.Point {
	tl := m.topLeft()
	return geom.Pt(tl.X+m.width*m.holyScale*0.5, tl.Y+m.height*m.holyScale*0.5)
}

// MoveCenterTo translates the layer so the center lands on p.
func (m *motion) MoveCenterTo(p geom.Point) {
	c := m.AbsoluteCenter()
	m.layer.PostTranslate((p.X-c.X)/m.canvasW, (p.Y-c.Y)/m.canvasH)
}

func (m *motion) MoveToCanvasCenter() {
	m.MoveCenterTo(geom.Pt(m.canvasW*0.5, m.canvasH*0.5))
}

// Matrix builds L = S·R·T·H: layer scale and rotation about the center,
// translation to the top left corner, then the holy scale. A flipped layer
// mirrors X and reverses the rotation.
func (m *motion) Matrix() gg.Matrix {
	if m.identity {
		return gg.Identity()
	}

	tl := m.topLeft()
	c := m.AbsoluteCenter()

	rotation := m.layer.Rotation
	scaleX := m.layer.Scale
	scaleY := m.layer.Scale
	if m.layer.Flipped {
		rotation = -rotation
		scaleX = -scaleX
	}

	mat := gg.Identity()
	mat = mat.Multiply(about(gg.Scale(scaleX, scaleY), c))
	mat = mat.Multiply(about(gg.Rotate(rotation*math.Pi/180), c))
	mat = mat.Multiply(gg.Translate(tl.X, tl.Y))
	mat = mat.Multiply(gg.Scale(m.holyScale, m.holyScale))
	return mat
}

// about applies t around pivot p.
func about(t gg.Matrix, p geom.Point) gg.Matrix {
	return gg.Translate(p.X, p.Y).Multiply(t).Multiply(gg.Translate(-p.X, -p.Y))
}

func (m *motion) SourceQuad() [4]geom.Point {
	return [4]geom.Point{
		geom.Pt(0, 0),
		geom.Pt(m.width, 0),
		geom.Pt(m.width, m.height),
		geom.Pt(0, m.height),
	}
}

// DestinationQuad maps the source corners through the current matrix. It
// is recomputed on every call because the layer may have changed.
func (m *motion) DestinationQuad() [4]geom.Point {
	mat := m.Matrix()
	var dst [4]geom.Point
	for i, p := range m.SourceQuad() {
		dst[i] = mat.TransformPoint(p)
	}
	return dst
}

func (m *motion) HitTest(p geom.Point) bool {
	return geom.PointInQuad(p, m.DestinationQuad())
}

func (m *motion) Draw(dst *image.RGBA, paint style.Paint) {
	mat := m.Matrix()
	if m.drawContent != nil {
		m.drawContent(dst, mat, paint)
	}
	if m.selected && m.border.Color.A != 0 {
		drawBorder(dst, m.DestinationQuad(), m.border, paint.Alpha())
	}
}

func (m *motion) DrawingStep() int {
	return CompleteStep
}

func (m *motion) Undo() bool {
	return false
}
