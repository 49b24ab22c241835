package entity

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"MarkupBoard/internal/style"
)

// Font size limits, as fractions of the canvas width.
const (
	InitialFontSize = 0.075
	FontSizeStep    = 0.008
	MinFontSize     = 0.01

	// minTextHeight is the smallest text buffer height as a fraction of the
	// canvas height.
	minTextHeight = 0.13
	textPadding   = 0.2
)

// Font describes how a text entity is lettered.
type Font struct {
	Size  float64     `json:"size"` // fraction of the canvas width
	Color color.NRGBA `json:"-"`
	Face  string      `json:"face"`
}

// IncreaseSize grows the font by step.
func (f *Font) IncreaseSize(step float64) {
	f.Size += step
}

// DecreaseSize shrinks the font by step, never below MinFontSize.
func (f *Font) DecreaseSize(step float64) {
	f.Size = math.Max(f.Size-step, MinFontSize)
}

// HostFontSize converts a host font size to a canvas fraction. Sizes of
// zero or less select InitialFontSize.
func HostFontSize(n int) float64 {
	if n <= 0 {
		return InitialFontSize
	}
	return float64(n) / 200
}

// TextLayer is a Layer carrying the text and its font.
type TextLayer struct {
	Layer
	Text string
	Font Font
}

// NewTextLayer creates a text layer with the initial text scale.
func NewTextLayer(s string, f Font) *TextLayer {
	tl := &TextLayer{Text: s, Font: f}
	tl.Layer = Layer{Scale: 1, initialScale: InitialTextScale}
	return tl
}

var (
	sourcesMu sync.Mutex
	sources   = map[string]*text.FontSource{}
)

func fontSource(face string) (*text.FontSource, error) {
	face = style.FaceName(face)

	sourcesMu.Lock()
	defer sourcesMu.Unlock()

	if src, ok := sources[face]; ok {
		return src, nil
	}
	src, err := text.NewFontSource(style.FontData(face))
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", face, err)
	}
	sources[face] = src
	return src, nil
}

// Text is an editable text entity. Lines are centered in a buffer as wide
// as the canvas.
type Text struct {
	*motion
	tl *TextLayer

	face  text.Face
	lineH float64
	lines []string

	buf   buffer
	dirty bool
}

// NewText creates a text entity.
func NewText(canvasW, canvasH float64, tl *TextLayer) (*Text, error) {
	t := &Text{tl: tl}
	t.motion = newMotion(KindText, &tl.Layer, canvasW, canvasH, canvasW, canvasH*minTextHeight)
	t.motion.drawContent = t.drawContent
	if err := t.measure(); err != nil {
		return nil, err
	}
	return t, nil
}

// TextLayer returns the entity's text layer.
func (t *Text) TextLayer() *TextLayer {
	return t.tl
}

// measure lays out the lines and refits the natural size.
func (t *Text) measure() error {
	src, err := fontSource(t.tl.Font.Face)
	if err != nil {
		return err
	}
	t.face = src.Face(t.tl.Font.Size * t.canvasW)
	t.lines = strings.Split(t.tl.Text, "\n")

	_, t.lineH = text.Measure("Hg", t.face)
	pad := t.lineH * textPadding
	height := math.Max(t.canvasH*minTextHeight, float64(len(t.lines))*t.lineH+2*pad)

	t.setSize(t.canvasW, height)
	t.dirty = true
	return nil
}

// update re-measures while keeping the entity centered where it was.
func (t *Text) update() {
	center := t.AbsoluteCenter()
	if err := t.measure(); err != nil {
		return
	}
	t.MoveCenterTo(center)
}

// SetText replaces the text. Empty text is ignored.
func (t *Text) SetText(s string) bool {
	if s == "" {
		return false
	}
	t.tl.Text = s
	t.update()
	return true
}

func (t *Text) IncreaseFontSize() {
	t.tl.Font.IncreaseSize(FontSizeStep)
	t.update()
}

func (t *Text) DecreaseFontSize() {
	t.tl.Font.DecreaseSize(FontSizeStep)
	t.update()
}

func (t *Text) drawContent(dst *image.RGBA, m gg.Matrix, _ style.Paint) {
	if t.dirty || !t.buf.ready() {
		t.repaint()
		t.dirty = false
	}
	blit(dst, t.buf.img, m, t.tl.Font.Color.A)
}

func (t *Text) repaint() {
	dc := t.buf.acquire(int(math.Ceil(t.width)), int(math.Ceil(t.height)))
	dc.SetFont(t.face)
	dc.SetColor(style.WithAlpha(t.tl.Font.Color, 255))

	ascent := t.face.Metrics().Ascent
	top := (t.height - float64(len(t.lines))*t.lineH) / 2
	for i, line := range t.lines {
		w, _ := text.Measure(line, t.face)
		dc.DrawString(line, (t.width-w)/2, top+float64(i)*t.lineH+ascent)
	}
	t.buf.snapshot()
}

func (t *Text) Release() {
	t.buf.release()
}
