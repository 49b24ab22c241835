package state

import (
	"log"

	"MarkupBoard/internal/entity"
	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/gesture"
)

// HandleTouch feeds a raw touch event to the board. A single finger on empty
// canvas draws with the brush while nothing is selected; every event then
// runs through the tap, scale, rotate and move recognizers.
func (b *Board) HandleTouch(e gesture.TouchEvent) bool {
	switch e.Action {
	case gesture.ActionDown:
		p := e.Primary()
		switch v := b.mode.(type) {
		case idle:
			if b.FindEntityAt(p) == nil {
				b.NewPath(b.ids.next(), b.brush.Color, b.brush.StrokeWidth)
				b.touchPath = currentPathOf(b.mode)
				b.AddPoint(p, false)
			}
		case measuring:
			if v.tool.FocusAt(p) {
				b.invalidate(false)
			}
		case selecting:
			if mt, ok := v.entity.(*entity.MeasureTool); ok && mt.FocusAt(p) {
				b.invalidate(false)
			}
		}
	case gesture.ActionMove:
		if b.touchPath != nil && e.Count() == 1 {
			b.AddPoint(e.Primary(), true)
		}
	case gesture.ActionPointerDown, gesture.ActionUp, gesture.ActionCancel:
		if b.touchPath != nil && currentPathOf(b.mode) == b.touchPath {
			b.EndPath()
		}
		if e.Action != gesture.ActionPointerDown {
			b.releaseFocus()
		}
	}
	return b.pipeline.OnTouchEvent(e)
}

func (b *Board) releaseFocus() {
	if mt, ok := selectedOf(b.mode).(*entity.MeasureTool); ok && mt.Focused() {
		mt.ReleaseFocus()
		b.invalidate(false)
	}
}

// OnTap adds a point to a measurement under construction or updates the
// selection.
func (b *Board) OnTap(p geom.Point) bool {
	if mt := measuringOf(b.mode); mt != nil {
		if complete := mt.AddPoint(p); !complete {
			b.invalidate(true)
		} else {
			b.drawingState(false)
			log.Printf("[BOARD] Measurement complete: %.1fpx", mt.Length())
			b.clearCurrentShape()
		}
		b.drawingState(false)
		return true
	}

	e := b.FindEntityAt(p)
	changed := selectedOf(b.mode) != e
	b.notifySelection(e != nil)
	b.selectEntity(e)
	if changed {
		b.drawingState(false)
	}
	return true
}

// OnScale scales the selected entity.
func (b *Board) OnScale(factor float64, _ geom.Point) bool {
	sel := selectedOf(b.mode)
	if sel == nil {
		return false
	}
	sel.Layer().PostScale(factor - 1)
	b.invalidate(true)
	return true
}

// OnRotate rotates the selected entity.
func (b *Board) OnRotate(deltaDegrees float64) bool {
	sel := selectedOf(b.mode)
	if sel == nil {
		return false
	}
	sel.Layer().PostRotate(-deltaDegrees)
	b.invalidate(true)
	return true
}

// OnMove drags the selected entity or a focused measurement endpoint.
func (b *Board) OnMove(delta geom.Point) bool {
	sel := selectedOf(b.mode)
	if sel == nil {
		return measuringOf(b.mode) != nil
	}
	b.handleTranslate(sel, delta)
	return true
}

// handleTranslate moves e by delta, applying each axis only while the
// entity's center stays on the canvas.
func (b *Board) handleTranslate(e entity.Entity, delta geom.Point) {
	var moved bool
	if mt, ok := e.(*entity.MeasureTool); ok {
		moved = mt.HandleTranslate(delta)
	} else {
		w, h := float64(b.width), float64(b.height)
		c := e.AbsoluteCenter()
		nx, ny := c.X+delta.X, c.Y+delta.Y
		if nx >= 0 && nx <= w {
			e.Layer().PostTranslate(delta.X/w, 0)
			moved = true
		}
		if ny >= 0 && ny <= h {
			e.Layer().PostTranslate(0, delta.Y/h)
			moved = true
		}
	}
	if moved {
		b.invalidate(true)
	}
}
