package state

import (
	"MarkupBoard/internal/entity"
)

// interaction is what the board is doing right now. Exactly one of the
// variants is active, so a stroke in progress, a selected entity and a
// measurement under construction can never be live at the same time.
type interaction interface {
	interaction()
}

type idle struct{}

// drawing is a freehand stroke being built.
type drawing struct {
	path *SketchData
}

// selecting holds the one selected entity.
type selecting struct {
	entity entity.Entity
}

// measuring is a measurement tool still collecting points. The tool is
// also the selection.
type measuring struct {
	tool *entity.MeasureTool
}

func (idle) interaction()      {}
func (drawing) interaction()   {}
func (selecting) interaction() {}
func (measuring) interaction() {}

func selectedOf(m interaction) entity.Entity {
	switch v := m.(type) {
	case selecting:
		return v.entity
	case measuring:
		return v.tool
	}
	return nil
}

func measuringOf(m interaction) *entity.MeasureTool {
	if v, ok := m.(measuring); ok {
		return v.tool
	}
	return nil
}

func currentPathOf(m interaction) *SketchData {
	if v, ok := m.(drawing); ok {
		return v.path
	}
	return nil
}
