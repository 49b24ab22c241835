package entity

import (
	"image"
	"image/color"
	"log"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"MarkupBoard/internal/geom"
	"MarkupBoard/internal/style"
)

// buffer is the offscreen raster an entity paints its content into at its
// natural size. It is created lazily and dropped by release.
type buffer struct {
	pm  *gg.Pixmap
	dc  *gg.Context
	img *image.RGBA
}

// acquire returns a cleared context of the given size, reallocating only
// when the size changed.
func (b *buffer) acquire(w, h int) *gg.Context {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if b.pm == nil || b.pm.Width() != w || b.pm.Height() != h {
		b.close()
		b.pm = gg.NewPixmap(w, h)
		b.dc = gg.NewContext(w, h, gg.WithPixmap(b.pm))
	}
	b.pm.Clear(gg.Transparent)
	b.dc.Identity()
	b.dc.ClearPath()
	b.img = nil
	return b.dc
}

// snapshot freezes what was painted so far for blitting.
func (b *buffer) snapshot() *image.RGBA {
	if b.pm == nil {
		return nil
	}
	b.img = b.pm.ToImage()
	return b.img
}

func (b *buffer) ready() bool {
	return b.img != nil
}

// release drops the raster. Releasing twice is a no-op.
func (b *buffer) release() {
	b.close()
	b.pm = nil
	b.dc = nil
	b.img = nil
}

func (b *buffer) close() {
	if b.dc == nil {
		return
	}
	if err := b.dc.Close(); err != nil {
		log.Printf("[ENTITY] buffer close: %v", err)
	}
	b.dc = nil
}

// newCanvas creates a scratch context backed by a pixmap we can read back.
func newCanvas(w, h int) (*gg.Context, *gg.Pixmap) {
	pm := gg.NewPixmap(w, h)
	return gg.NewContext(w, h, gg.WithPixmap(pm)), pm
}

func stroke(dc *gg.Context) {
	if err := dc.Stroke(); err != nil {
		log.Printf("[ENTITY] stroke: %v", err)
	}
}

func fill(dc *gg.Context) {
	if err := dc.Fill(); err != nil {
		log.Printf("[ENTITY] fill: %v", err)
	}
}

// blit draws src onto dst through m, scaled by alpha.
func blit(dst *image.RGBA, src *image.RGBA, m gg.Matrix, alpha uint8) {
	if src == nil || alpha == 0 {
		return
	}
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	var opts *draw.Options
	if alpha < 255 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: alpha})}
	}
	draw.BiLinear.Transform(dst, aff, src, src.Bounds(), draw.Over, opts)
}

// sidePairs are the two passes over the closed corner list: edges 0-1 and
// 2-3, then edges 1-2 and 3-0.
var sidePairs = [2][2][2]int{
	{{0, 1}, {2, 3}},
	{{1, 2}, {3, 0}},
}

// drawBorder strokes the edges of quad onto dst using the border color with
// its alpha replaced by alpha.
func drawBorder(dst *image.RGBA, quad [4]geom.Point, b style.Border, alpha uint8) {
	if b.Width <= 0 || alpha == 0 {
		return
	}
	area := geom.Bounds(quad[:], b.Width+2).RoundOut().Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	dc, pm := newCanvas(area.Dx(), area.Dy())
	defer dc.Close()
	dc.Translate(float64(-area.Min.X), float64(-area.Min.Y))
	dc.SetColor(style.WithAlpha(b.Color, alpha))
	dc.SetLineWidth(b.Width)
	if b.Style == style.Dashed {
		dc.SetDash(style.DashPattern...)
	}

	for _, pass := range sidePairs {
		for _, edge := range pass {
			from, to := quad[edge[0]], quad[edge[1]]
			dc.MoveTo(from.X, from.Y)
			dc.LineTo(to.X, to.Y)
		}
		stroke(dc)
	}

	draw.Draw(dst, area, pm.ToImage(), image.Point{}, draw.Over)
}
