package entity

import "math"

// Initial scales applied when an entity is first placed on the canvas.
const (
	InitialEntityScale = 0.4
	InitialTextScale   = 0.8
)

// Layer is the placement state of one entity. Offsets are fractions of the
// canvas width and height so placement survives resolution changes.
type Layer struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"` // degrees
	Flipped  bool    `json:"flipped"`

	initialScale float64
}

// NewLayer returns a layer at the origin with scale 1.
func NewLayer() *Layer {
	return &Layer{Scale: 1, initialScale: InitialEntityScale}
}

// PostTranslate moves the layer by a normalized offset.
func (l *Layer) PostTranslate(dx, dy float64) {
	l.X += dx
	l.Y += dy
}

// PostScale multiplies the current scale by 1+delta.
func (l *Layer) PostScale(delta float64) {
	l.Scale += l.Scale * delta
}

// PostRotate adds delta degrees to the rotation, keeping it in (-360, 360).
func (l *Layer) PostRotate(delta float64) {
	l.Rotation = math.Mod(l.Rotation+delta, 360)
}

// SetScale sets the scale absolutely. It is only used for initial placement.
func (l *Layer) SetScale(scale float64) {
	l.Scale = scale
}

// InitialScale is the scale the layer takes when its entity is placed.
func (l *Layer) InitialScale() float64 {
	return l.initialScale
}

// Flip toggles the horizontal mirror.
func (l *Layer) Flip() {
	l.Flipped = !l.Flipped
}

// Reset puts the layer back at the origin with scale 1.
func (l *Layer) Reset() {
	l.X, l.Y = 0, 0
	l.Scale = 1
	l.Rotation = 0
	l.Flipped = false
}
