// Package gesture turns raw touch streams into tap, scale, rotate and move
// deltas. Each detector is an independent state machine; the Pipeline feeds
// every event to all of them in a fixed order.
package gesture

import (
	"time"

	"MarkupBoard/internal/geom"
)

// Action is what happened to the pointer set in a TouchEvent.
type Action int

const (
	ActionDown        Action = iota // first pointer went down
	ActionPointerDown               // an additional pointer went down
	ActionMove                      // one or more pointers moved
	ActionPointerUp                 // a non-last pointer went up
	ActionUp                        // the last pointer went up
	ActionCancel                    // the gesture was aborted
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionPointerDown:
		return "pointer_down"
	case ActionMove:
		return "move"
	case ActionPointerUp:
		return "pointer_up"
	case ActionUp:
		return "up"
	default:
		return "cancel"
	}
}

// Pointer is one finger or mouse cursor.
type Pointer struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Pos returns the pointer position.
func (p Pointer) Pos() geom.Point {
	return geom.Pt(p.X, p.Y)
}

// TouchEvent is a snapshot of all pointers that are down. For up actions the
// lifted pointer is still listed and Index points at it.
type TouchEvent struct {
	Action   Action    `json:"action"`
	Pointers []Pointer `json:"pointers"`
	Index    int       `json:"index"`
	Time     time.Time `json:"time"`
}

// Count returns the number of pointers that stay down after the event.
func (e TouchEvent) Count() int {
	switch e.Action {
	case ActionPointerUp, ActionUp:
		return len(e.Pointers) - 1
	case ActionCancel:
		return 0
	}
	return len(e.Pointers)
}

// remaining lists the pointers that stay down after the event.
func (e TouchEvent) remaining() []Pointer {
	if e.Action != ActionPointerUp && e.Action != ActionUp {
		return e.Pointers
	}
	out := make([]Pointer, 0, len(e.Pointers))
	for i, p := range e.Pointers {
		if i != e.Index {
			out = append(out, p)
		}
	}
	return out
}

// Focus is the average position of the pointers that stay down.
func (e TouchEvent) Focus() geom.Point {
	return focus(e.remaining())
}

// Primary is the position of the first pointer.
func (e TouchEvent) Primary() geom.Point {
	if len(e.Pointers) == 0 {
		return geom.Point{}
	}
	return e.Pointers[0].Pos()
}

func focus(ps []Pointer) geom.Point {
	if len(ps) == 0 {
		return geom.Point{}
	}
	var x, y float64
	for _, p := range ps {
		x += p.X
		y += p.Y
	}
	n := float64(len(ps))
	return geom.Pt(x/n, y/n)
}

// Single builds a one-pointer event, the common case for mouse input.
func Single(action Action, x, y float64, at time.Time) TouchEvent {
	return TouchEvent{Action: action, Pointers: []Pointer{{X: x, Y: y}}, Time: at}
}
