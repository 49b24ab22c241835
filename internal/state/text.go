package state

import (
	"image"
	"image/color"
	"log"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/style"
)

// Overlay and layout names accepted in a TextBlock.
const (
	OverlayTextOnSketch = "TextOnSketch"
	OverlaySketchOnText = "SketchOnText"
	CoordinateRatio     = "Ratio"
	AlignLeft           = "Left"
	AlignCenter         = "Center"
	AlignRight          = "Right"

	defaultCanvasFontSize = 12
)

// Vec is a JSON friendly 2D value.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) point() geom.Point {
	return geom.Pt(v.X, v.Y)
}

// TextBlock is one block of overlay text as sent by the host.
type TextBlock struct {
	Text               string  `json:"text"`
	Font               string  `json:"font,omitempty"`
	FontSize           float64 `json:"fontSize,omitempty"`
	FontColor          string  `json:"fontColor,omitempty"`
	Anchor             *Vec    `json:"anchor,omitempty"`
	Position           *Vec    `json:"position,omitempty"`
	Coordinate         string  `json:"coordinate,omitempty"`
	Alignment          string  `json:"alignment,omitempty"`
	LineHeightMultiple float64 `json:"lineHeightMultiple,omitempty"`
	Overlay            string  `json:"overlay,omitempty"`
}

// textBounds mirrors integer glyph bounds relative to the baseline origin.
type textBounds struct {
	left, top, right, bottom float64
}

func (b textBounds) width() float64  { return b.right - b.left }
func (b textBounds) height() float64 { return b.bottom - b.top }

// CanvasText is one laid out line of overlay text.
type CanvasText struct {
	Text         string
	Position     geom.Point
	Anchor       geom.Point
	Absolute     bool
	LineOffset   geom.Point
	DrawPosition geom.Point

	face   font.Face
	color  color.NRGBA
	bounds textBounds
	height float64 // height of the whole block
}

// Layout places the line for a canvas of the given size.
func (t *CanvasText) Layout(w, h int) {
	pos := t.Position
	if !t.Absolute {
		pos.X *= float64(w)
		pos.Y *= float64(h)
	}
	pos.X -= t.bounds.left
	pos.Y -= t.bounds.top
	pos.X -= t.bounds.width() * t.Anchor.X
	pos.Y -= t.height * t.Anchor.Y
	t.DrawPosition = pos
}

// Draw renders the line onto dst at its laid out baseline.
func (t *CanvasText) Draw(dst *image.RGBA) {
	if t.face == nil || t.Text == "" {
		return
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(t.color),
		Face: t.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round((t.DrawPosition.X + t.LineOffset.X) * 64)),
			Y: fixed.Int26_6(math.Round((t.DrawPosition.Y + t.LineOffset.Y) * 64)),
		},
	}
	d.DrawString(t.Text)
}

func measureLine(face font.Face, s string) textBounds {
	if s == "" {
		return textBounds{}
	}
	b, _ := font.BoundString(face, s)
	return textBounds{
		left:   float64(b.Min.X.Floor()),
		top:    float64(b.Min.Y.Floor()),
		right:  float64(b.Max.X.Ceil()),
		bottom: float64(b.Max.Y.Ceil()),
	}
}

// canvasTexts holds the overlay lines split by where they render relative
// to the freehand layer.
type canvasTexts struct {
	all          []*CanvasText
	sketchOnText []*CanvasText
	textOnSketch []*CanvasText
}

// set replaces every block. Blocks with bad colors or fonts are skipped.
func (ct *canvasTexts) set(blocks []TextBlock, w, h int) {
	*ct = canvasTexts{}
	for _, b := range blocks {
		lines, err := layoutBlock(b)
		if err != nil {
			log.Printf("[BOARD] Skipping text block %q: %v", b.Text, err)
			continue
		}
		for _, l := range lines {
			if w > 0 && h > 0 {
				l.Layout(w, h)
			}
			ct.all = append(ct.all, l)
			if b.Overlay == OverlayTextOnSketch {
				ct.textOnSketch = append(ct.textOnSketch, l)
			} else {
				ct.sketchOnText = append(ct.sketchOnText, l)
			}
		}
	}
}

func (ct *canvasTexts) layout(w, h int) {
	for _, t := range ct.all {
		t.Layout(w, h)
	}
}

func drawTexts(dst *image.RGBA, texts []*CanvasText) {
	for _, t := range texts {
		t.Draw(dst)
	}
}

// layoutBlock splits a block into lines and computes each line's offset
// inside the block.
func layoutBlock(b TextBlock) ([]*CanvasText, error) {
	size := b.FontSize
	if size <= 0 {
		size = defaultCanvasFontSize
	}
	face, err := style.Face(b.Font, size)
	if err != nil {
		return nil, err
	}
	c := style.Black
	if b.FontColor != "" {
		if c, err = style.ParseColor(b.FontColor); err != nil {
			return nil, err
		}
	}
	lineHeight := b.LineHeightMultiple
	if lineHeight == 0 {
		lineHeight = 1
	}
	var anchor, position geom.Point
	if b.Anchor != nil {
		anchor = b.Anchor.point()
	}
	if b.Position != nil {
		position = b.Position.point()
	}

	lines := strings.Split(b.Text, "\n")
	out := make([]*CanvasText, 0, len(lines))
	offset, maxWidth := 0.0, 0.0
	for _, line := range lines {
		t := &CanvasText{
			Text:       line,
			Position:   position,
			Anchor:     anchor,
			Absolute:   b.Coordinate != CoordinateRatio,
			LineOffset: geom.Pt(0, offset),
			face:       face,
			color:      c,
			bounds:     measureLine(face, line),
		}
		// offsets advance in whole pixels
		offset = math.Trunc(offset + t.bounds.height()*1.5*lineHeight)
		maxWidth = math.Max(maxWidth, t.bounds.width())
		out = append(out, t)
	}

	for _, t := range out {
		t.height = offset
		if w := t.bounds.width(); w < maxWidth {
			shift := (maxWidth - w) * t.Anchor.X
			t.bounds.left += shift
			t.bounds.right += shift
		}
	}
	if len(out) > 1 {
		for _, t := range out {
			switch b.Alignment {
			case AlignRight:
				t.LineOffset.X = maxWidth - t.bounds.width()
			case AlignCenter:
				t.LineOffset.X = (maxWidth - t.bounds.width()) / 2
			}
		}
	}
	return out, nil
}
