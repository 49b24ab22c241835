package gesture

import (
	"MarkupBoard/internal/geom"
)

// MoveDetector reports how far the focus of all pointers travelled since
// the last handled event. The reference resets whenever the pointer count
// changes so adding a finger does not jump.
type MoveDetector struct {
	OnMove func(delta geom.Point) bool

	active bool
	prev   geom.Point
}

// NewMoveDetector creates a MoveDetector.
func NewMoveDetector(onMove func(geom.Point) bool) *MoveDetector {
	return &MoveDetector{OnMove: onMove}
}

// OnTouchEvent feeds one event and reports whether a move was handled.
func (d *MoveDetector) OnTouchEvent(e TouchEvent) bool {
	switch e.Action {
	case ActionDown, ActionPointerDown, ActionPointerUp:
		d.active = e.Count() > 0
		d.prev = e.Focus()
	case ActionUp, ActionCancel:
		d.active = false
	case ActionMove:
		if !d.active {
			return false
		}
		cur := e.Focus()
		delta := cur.Sub(d.prev)
		if delta.X == 0 && delta.Y == 0 {
			return false
		}
		handled := false
		if d.OnMove != nil {
			handled = d.OnMove(delta)
		}
		if handled {
			d.prev = cur
		}
		return handled
	}
	return false
}
