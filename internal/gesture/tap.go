package gesture

import (
	"time"

	"MarkupBoard/internal/geom"
)

// Defaults for tap recognition.
const (
	DefaultTouchSlop = 16
	DefaultLongPress = 500 * time.Millisecond
)

// TapDetector recognizes a single finger going down and up without moving
// beyond the touch slop and before the long-press timeout.
type TapDetector struct {
	Slop      float64
	LongPress time.Duration
	OnTap     func(p geom.Point) bool

	tracking bool
	start    geom.Point
	downAt   time.Time
}

// NewTapDetector creates a TapDetector with default thresholds.
func NewTapDetector(onTap func(geom.Point) bool) *TapDetector {
	return &TapDetector{Slop: DefaultTouchSlop, LongPress: DefaultLongPress, OnTap: onTap}
}

// OnTouchEvent feeds one event and reports whether a tap was handled.
func (d *TapDetector) OnTouchEvent(e TouchEvent) bool {
	switch e.Action {
	case ActionDown:
		d.tracking = true
		d.start = e.Primary()
		d.downAt = e.Time
	case ActionPointerDown, ActionCancel:
		d.tracking = false
	case ActionMove:
		if d.tracking && geom.Distance(d.start, e.Primary()) > d.Slop {
			d.tracking = false
		}
	case ActionUp:
		if !d.tracking {
			return false
		}
		d.tracking = false
		if d.LongPress > 0 && !d.downAt.IsZero() && e.Time.Sub(d.downAt) >= d.LongPress {
			return false
		}
		if d.OnTap != nil {
			return d.OnTap(e.Primary())
		}
	}
	return false
}
