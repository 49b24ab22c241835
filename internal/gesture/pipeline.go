package gesture

import (
	"time"

	"MarkupBoard/internal/geom"
)

// Listener receives recognized gestures. Each method reports whether it
// consumed the gesture; unconsumed scale, rotate and move deltas keep
// accumulating against the last consumed position.
type Listener interface {
	OnTap(p geom.Point) bool
	OnScale(factor float64, focus geom.Point) bool
	OnRotate(deltaDegrees float64) bool
	OnMove(delta geom.Point) bool
}

// Options tunes the detectors.
type Options struct {
	TouchSlop float64
	LongPress time.Duration
}

// DefaultOptions returns the default thresholds.
func DefaultOptions() Options {
	return Options{TouchSlop: DefaultTouchSlop, LongPress: DefaultLongPress}
}

// Pipeline feeds each touch event to tap, scale, rotate and move, in that
// order. Several detectors may fire for the same event.
type Pipeline struct {
	Tap    *TapDetector
	Scale  *ScaleDetector
	Rotate *RotateDetector
	Move   *MoveDetector
}

// NewPipeline wires the four detectors to l.
func NewPipeline(l Listener, opts Options) *Pipeline {
	tap := NewTapDetector(l.OnTap)
	if opts.TouchSlop > 0 {
		tap.Slop = opts.TouchSlop
	}
	if opts.LongPress > 0 {
		tap.LongPress = opts.LongPress
	}
	return &Pipeline{
		Tap:    tap,
		Scale:  NewScaleDetector(l.OnScale),
		Rotate: NewRotateDetector(l.OnRotate),
		Move:   NewMoveDetector(l.OnMove),
	}
}

// OnTouchEvent dispatches e and reports whether any detector handled it.
func (p *Pipeline) OnTouchEvent(e TouchEvent) bool {
	handled := p.Tap.OnTouchEvent(e)
	handled = p.Scale.OnTouchEvent(e) || handled
	handled = p.Rotate.OnTouchEvent(e) || handled
	handled = p.Move.OnTouchEvent(e) || handled
	return handled
}
