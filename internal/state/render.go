package state

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"MarkupBoard/internal/export"
	"MarkupBoard/internal/geom"
)

// FlattenOptions selects what goes into an exported image.
type FlattenOptions struct {
	Transparent     bool `json:"transparent"`
	IncludeImage    bool `json:"includeImage"`
	IncludeText     bool `json:"includeText"`
	CropToImageSize bool `json:"cropToImageSize"`
}

func clearImage(img *image.RGBA) {
	if img == nil {
		return
	}
	clear(img.Pix)
}

// redrawPaths rebuilds the stroke layer when a stroke was removed or the
// canvas was resized.
func (b *Board) redrawPaths() {
	if !b.needsFullRedraw || b.drawingLayer == nil {
		return
	}
	clearImage(b.drawingLayer)
	current := currentPathOf(b.mode)
	for _, p := range b.paths {
		if p == current && p.IsTranslucent {
			continue
		}
		p.Draw(b.drawingLayer)
	}
	b.needsFullRedraw = false
}

// Render clears dst and paints the board onto it: background, text under
// the sketch, strokes, the translucent stroke in progress, text over the
// sketch, then entities bottom to top.
func (b *Board) Render(dst *image.RGBA) {
	b.redrawPaths()
	clearImage(dst)

	if b.background != nil {
		b.drawBackground(dst)
	}
	drawTexts(dst, b.texts.sketchOnText)
	if b.drawingLayer != nil {
		draw.Draw(dst, dst.Bounds(), b.drawingLayer, image.Point{}, draw.Over)
	}
	if path := currentPathOf(b.mode); path != nil && path.IsTranslucent {
		draw.Draw(dst, dst.Bounds(), b.translucentLayer, image.Point{}, draw.Over)
	}
	drawTexts(dst, b.texts.textOnSketch)
	b.drawEntities(dst)
}

func (b *Board) drawEntities(dst *image.RGBA) {
	for _, e := range b.entities {
		e.Draw(dst, b.paint)
	}
}

// drawBackground draws the background fitted to dst, caching the scaled
// copy between frames.
func (b *Board) drawBackground(dst *image.RGBA) {
	bounds := dst.Bounds()
	if b.bgCache == nil || b.bgCacheFor != bounds {
		b.bgCache = image.NewRGBA(bounds)
		b.scaleBackground(b.bgCache)
		b.bgCacheFor = bounds
	}
	draw.Draw(dst, bounds, b.bgCache, bounds.Min, draw.Over)
}

func (b *Board) scaleBackground(dst *image.RGBA) {
	sb := b.background.Bounds()
	db := dst.Bounds()
	target := geom.Fit(float64(sb.Dx()), float64(sb.Dy()), float64(db.Dx()), float64(db.Dy()), b.bgMode).RoundOut()
	draw.CatmullRom.Scale(dst, target.Add(db.Min), b.background, sb, draw.Over, nil)
}

// Flatten composes the board into a new image. Entities are drawn over a
// copy of the stroke layer so the live layer stays untouched.
func (b *Board) Flatten(opts FlattenOptions) (*image.RGBA, error) {
	if b.width <= 0 || b.height <= 0 {
		return nil, ErrNoCanvas
	}
	crop := b.background != nil && opts.CropToImageSize
	w, h := b.width, b.height
	if crop {
		sb := b.background.Bounds()
		w, h = sb.Dx(), sb.Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if !opts.Transparent {
		draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	if b.background != nil && opts.IncludeImage {
		b.scaleBackground(out)
	}
	if opts.IncludeText {
		drawTexts(out, b.texts.sketchOnText)
	}

	b.redrawPaths()
	sketch := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	if b.drawingLayer != nil {
		copy(sketch.Pix, b.drawingLayer.Pix)
	}
	b.drawEntities(sketch)

	if crop {
		target := geom.Fit(float64(b.width), float64(b.height), float64(w), float64(h), geom.AspectFill).RoundOut()
		draw.CatmullRom.Scale(out, target, sketch, sketch.Bounds(), draw.Over, nil)
	} else {
		draw.Draw(out, out.Bounds(), sketch, image.Point{}, draw.Over)
	}

	if opts.IncludeText {
		drawTexts(out, b.texts.textOnSketch)
	}
	return out, nil
}

// Base64 flattens the board and encodes it. Only PNG keeps transparency.
func (b *Board) Base64(format string, opts FlattenOptions) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	opts.Transparent = opts.Transparent && f.SupportsAlpha()
	img, err := b.Flatten(opts)
	if err != nil {
		return "", err
	}
	return export.Base64(img, f)
}

// Save flattens the board into folder/filename and reports the outcome to
// the host.
func (b *Board) Save(format, folder, filename string, opts FlattenOptions) (string, error) {
	path, err := b.save(format, folder, filename, opts)
	if err != nil {
		log.Printf("[BOARD] Save failed: %v", err)
		b.emit(saved(false, ""))
		return "", err
	}
	b.emit(saved(true, path))
	return path, nil
}

func (b *Board) save(format, folder, filename string, opts FlattenOptions) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	opts.Transparent = opts.Transparent && f.SupportsAlpha()
	img, err := b.Flatten(opts)
	if err != nil {
		return "", err
	}
	return export.Save(folder, filename, img, f)
}

// SetBackground sets the image drawn beneath everything. A nil image
// removes it.
func (b *Board) SetBackground(img image.Image, mode geom.ContentMode) {
	b.background = img
	b.bgMode = mode
	b.bgCache = nil
	b.invalidate(true)
}

// Background returns the background image, if any.
func (b *Board) Background() image.Image {
	return b.background
}

// OpenImageFile loads a background image, turning it clockwise by
// rotationDegrees (a multiple of 90). It reports whether an image was set.
func (b *Board) OpenImageFile(path string, mode geom.ContentMode, rotationDegrees int) bool {
	img, err := decodeFile(path)
	if err != nil {
		log.Printf("[BOARD] Open image: %v", err)
		return false
	}
	b.SetBackground(rotateQuarter(img, rotationDegrees), mode)
	return true
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// rotateQuarter turns img clockwise by a multiple of 90 degrees.
func rotateQuarter(img image.Image, degrees int) image.Image {
	turns := ((degrees/90)%4 + 4) % 4
	if turns == 0 {
		return img
	}

	sb := img.Bounds()
	w, h := float64(sb.Dx()), float64(sb.Dy())
	var aff f64.Aff3
	var dst *image.RGBA
	switch turns {
	case 1:
		dst = image.NewRGBA(image.Rect(0, 0, sb.Dy(), sb.Dx()))
		aff = f64.Aff3{0, -1, h, 1, 0, 0}
	case 2:
		dst = image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
		aff = f64.Aff3{-1, 0, w, 0, -1, h}
	default:
		dst = image.NewRGBA(image.Rect(0, 0, sb.Dy(), sb.Dx()))
		aff = f64.Aff3{0, 1, 0, -1, 0, w}
	}
	// the transform maps source pixel space, which starts at sb.Min
	aff[2] -= aff[0]*float64(sb.Min.X) + aff[1]*float64(sb.Min.Y)
	aff[5] -= aff[3]*float64(sb.Min.X) + aff[4]*float64(sb.Min.Y)
	draw.NearestNeighbor.Transform(dst, aff, img, sb, draw.Src, nil)
	return dst
}
