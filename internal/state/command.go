package state

import (
	"errors"
	"fmt"
	"image/color"

	"MarkupBoard/internal/entity"
	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/gesture"
	"MarkupBoard/internal/style"
)

// ErrUnknownCommand is returned by Apply for actions it does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Command actions.
const (
	ActionSetSize            = "setSize"
	ActionClear              = "clear"
	ActionNewPath            = "newPath"
	ActionAddPoint           = "addPoint"
	ActionAddPath            = "addPath"
	ActionDeletePath         = "deletePath"
	ActionEndPath            = "endPath"
	ActionShapeConfiguration = "setShapeConfiguration"
	ActionAddShape           = "addShape"
	ActionDeleteSelected     = "deleteSelectedShape"
	ActionUnselect           = "unselectShape"
	ActionUndo               = "undo"
	ActionIncreaseFontSize   = "increaseShapeFontsize"
	ActionDecreaseFontSize   = "decreaseShapeFontsize"
	ActionChangeText         = "changeShapeText"
	ActionCanvasText         = "setCanvasText"
	ActionOpenImage          = "openImageFile"
	ActionSave               = "save"
	ActionBase64             = "getBase64"
	ActionTouch              = "touch"
)

// Command is an inbound request from a host. Only the fields the action
// uses are read.
type Command struct {
	Action string `json:"action"`

	// canvas
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// strokes
	ID          int     `json:"id,omitempty"`
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	IsMove      bool    `json:"isMove,omitempty"`
	Points      []Vec   `json:"points,omitempty"`

	// entities
	ShapeConfiguration *ShapeConfig `json:"shapeConfiguration,omitempty"`
	ShapeType          string       `json:"shapeType,omitempty"`
	FontType           string       `json:"fontType,omitempty"`
	FontSize           int          `json:"fontSize,omitempty"`
	Text               *string      `json:"text,omitempty"`
	ImageAsset         string       `json:"imageAsset,omitempty"`

	// overlay text
	CanvasText []TextBlock `json:"canvasText,omitempty"`

	// background
	Filename    string `json:"filename,omitempty"`
	Directory   string `json:"directory,omitempty"`
	ContentMode string `json:"contentMode,omitempty"`
	Rotation    int    `json:"rotation,omitempty"`

	// export
	Format string `json:"format,omitempty"`
	Folder string `json:"folder,omitempty"`
	FlattenOptions

	// raw input
	Touch *gesture.TouchEvent `json:"touch,omitempty"`
}

// Apply runs one command. Interaction commands never fail; errors come
// from malformed input and from export.
func (b *Board) Apply(c Command) error {
	switch c.Action {
	case ActionSetSize:
		b.SetSize(c.Width, c.Height)
	case ActionClear:
		b.Clear()
	case ActionNewPath:
		col, err := parseStrokeColor(c.Color)
		if err != nil {
			return err
		}
		b.NewPath(c.ID, col, c.StrokeWidth)
	case ActionAddPoint:
		b.AddPoint(geom.Pt(c.X, c.Y), c.IsMove)
	case ActionAddPath:
		col, err := parseStrokeColor(c.Color)
		if err != nil {
			return err
		}
		pts := make([]geom.Point, len(c.Points))
		for i, p := range c.Points {
			pts[i] = p.point()
		}
		b.AddPath(c.ID, col, c.StrokeWidth, pts)
	case ActionDeletePath:
		b.DeletePath(c.ID)
	case ActionEndPath:
		b.EndPath()
	case ActionShapeConfiguration:
		if c.ShapeConfiguration == nil {
			return nil
		}
		return b.SetShapeConfiguration(*c.ShapeConfiguration)
	case ActionAddShape:
		b.AddEntity(entity.ParseKind(c.ShapeType), EntityOptions{
			FontType:   c.FontType,
			FontSize:   c.FontSize,
			Text:       c.Text,
			ImageAsset: c.ImageAsset,
		})
	case ActionDeleteSelected:
		b.DeleteSelected()
	case ActionUnselect:
		b.Unselect()
	case ActionUndo:
		b.Undo()
	case ActionIncreaseFontSize:
		b.IncreaseTextFontSize()
	case ActionDecreaseFontSize:
		b.DecreaseTextFontSize()
	case ActionChangeText:
		if c.Text != nil {
			b.SetTextEntityText(*c.Text)
		}
	case ActionCanvasText:
		b.SetCanvasText(c.CanvasText)
	case ActionOpenImage:
		path := c.Directory + c.Filename
		if !b.OpenImageFile(path, geom.ParseContentMode(c.ContentMode), c.Rotation) {
			return fmt.Errorf("open image %s: not placed", path)
		}
	case ActionSave:
		_, err := b.Save(c.Format, c.Folder, c.Filename, c.FlattenOptions)
		return err
	case ActionBase64:
		data, err := b.Base64(c.Format, c.FlattenOptions)
		if err != nil {
			return err
		}
		b.emit(base64Ready(data))
	case ActionTouch:
		if c.Touch != nil {
			b.HandleTouch(*c.Touch)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Action)
	}
	return nil
}

// parseStrokeColor defaults an empty color to black. The eraser is sent
// as a fully transparent color such as "#00000000".
func parseStrokeColor(s string) (color.NRGBA, error) {
	if s == "" {
		return style.Black, nil
	}
	return style.ParseColor(s)
}
