package gesture

import (
	"math"

	"MarkupBoard/internal/geom"
)

// minRotateSpan is the shortest finger baseline whose angle is trusted.
const minRotateSpan = 1e-6

// RotateDetector recognizes a two-finger twist. The delta is the previous
// baseline angle minus the current one, in degrees.
type RotateDetector struct {
	OnRotate func(deltaDegrees float64) bool

	inProgress bool
	prev       geom.Point // baseline vector between the first two pointers
}

// NewRotateDetector creates a RotateDetector.
func NewRotateDetector(onRotate func(float64) bool) *RotateDetector {
	return &RotateDetector{OnRotate: onRotate}
}

func baseline(ps []Pointer) geom.Point {
	return ps[1].Pos().Sub(ps[0].Pos())
}

// RotationDelta returns the signed angle from cur back to prev in degrees,
// normalized to (-180, 180]. Coincident pointers give zero.
func RotationDelta(prev, cur geom.Point) float64 {
	if prev.Length() < minRotateSpan || cur.Length() < minRotateSpan {
		return 0
	}
	d := (math.Atan2(prev.Y, prev.X) - math.Atan2(cur.Y, cur.X)) * 180 / math.Pi
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// InProgress reports whether a twist is being tracked.
func (d *RotateDetector) InProgress() bool {
	return d.inProgress
}

// OnTouchEvent feeds one event and reports whether a rotation was handled.
func (d *RotateDetector) OnTouchEvent(e TouchEvent) bool {
	switch e.Action {
	case ActionDown, ActionCancel, ActionUp:
		d.inProgress = false
	case ActionPointerDown, ActionPointerUp:
		rest := e.remaining()
		d.inProgress = len(rest) >= 2
		if d.inProgress {
			d.prev = baseline(rest)
		}
	case ActionMove:
		if !d.inProgress || len(e.Pointers) < 2 {
			return false
		}
		cur := baseline(e.Pointers)
		delta := RotationDelta(d.prev, cur)
		if delta == 0 {
			return false
		}
		handled := false
		if d.OnRotate != nil {
			handled = d.OnRotate(delta)
		}
		if handled {
			d.prev = cur
		}
		return handled
	}
	return false
}
