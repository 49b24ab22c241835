package gesture

import (
	"MarkupBoard/internal/geom"
)

// ScaleDetector recognizes a two-finger pinch. It reports the factor by
// which the span between the first two pointers changed since the last
// handled event.
type ScaleDetector struct {
	OnScale func(factor float64, focus geom.Point) bool

	inProgress bool
	prevSpan   float64
}

// NewScaleDetector creates a ScaleDetector.
func NewScaleDetector(onScale func(float64, geom.Point) bool) *ScaleDetector {
	return &ScaleDetector{OnScale: onScale}
}

func span(ps []Pointer) float64 {
	return geom.Distance(ps[0].Pos(), ps[1].Pos())
}

// InProgress reports whether a pinch is being tracked.
func (d *ScaleDetector) InProgress() bool {
	return d.inProgress
}

// OnTouchEvent feeds one event and reports whether a scale was handled.
func (d *ScaleDetector) OnTouchEvent(e TouchEvent) bool {
	switch e.Action {
	case ActionDown, ActionCancel, ActionUp:
		d.inProgress = false
		d.prevSpan = 0
	case ActionPointerDown, ActionPointerUp:
		rest := e.remaining()
		d.inProgress = len(rest) >= 2
		d.prevSpan = 0
		if d.inProgress {
			d.prevSpan = span(rest)
		}
	case ActionMove:
		if !d.inProgress || len(e.Pointers) < 2 {
			return false
		}
		cur := span(e.Pointers)
		if d.prevSpan <= 0 {
			d.prevSpan = cur
			return false
		}
		handled := false
		if d.OnScale != nil {
			handled = d.OnScale(cur/d.prevSpan, e.Focus())
		}
		if handled {
			d.prevSpan = cur
		}
		return handled
	}
	return false
}
