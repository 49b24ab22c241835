package gesture

import (
	"math"
	"time"

	"MarkupBoard/internal/geom"
)

// PinchRadius is the half span of a synthesized pinch.
const PinchRadius = 50

// Pinch synthesizes the events of a two-finger gesture around center that
// scales by factor and turns by degrees. Hosts without multi-touch use it
// to drive the scale and rotate detectors from a mouse wheel.
func Pinch(center geom.Point, factor, degrees float64, at time.Time) []TouchEvent {
	p0 := Pointer{ID: 0, X: center.X - PinchRadius, Y: center.Y}
	p1 := Pointer{ID: 1, X: center.X + PinchRadius, Y: center.Y}

	rad := degrees * math.Pi / 180
	r := PinchRadius * factor
	dx, dy := r*math.Cos(rad), r*math.Sin(rad)
	q0 := Pointer{ID: 0, X: center.X - dx, Y: center.Y - dy}
	q1 := Pointer{ID: 1, X: center.X + dx, Y: center.Y + dy}

	return []TouchEvent{
		{Action: ActionDown, Pointers: []Pointer{p0}, Index: 0, Time: at},
		{Action: ActionPointerDown, Pointers: []Pointer{p0, p1}, Index: 1, Time: at},
		{Action: ActionMove, Pointers: []Pointer{q0, q1}, Time: at},
		{Action: ActionPointerUp, Pointers: []Pointer{q0, q1}, Index: 1, Time: at},
		{Action: ActionUp, Pointers: []Pointer{q0}, Index: 0, Time: at},
	}
}
