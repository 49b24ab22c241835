package geom

import "strings"

// ContentMode selects how a background image is fitted into the canvas.
type ContentMode int

const (
	AspectFit   ContentMode = iota // whole image visible, letterboxed
	AspectFill                     // canvas covered, image cropped
	ScaleToFill                    // stretched to the canvas
)

func (m ContentMode) String() string {
	switch m {
	case AspectFill:
		return "AspectFill"
	case ScaleToFill:
		return "ScaleToFill"
	default:
		return "AspectFit"
	}
}

// ParseContentMode maps a host content-mode name to a ContentMode.
// Unknown names select AspectFit.
func ParseContentMode(s string) ContentMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aspectfill":
		return AspectFill
	case "scaletofill":
		return ScaleToFill
	default:
		return AspectFit
	}
}

// Fit returns the rectangle, inside a dstW x dstH target, that an image of
// srcW x srcH occupies under the given content mode.
func Fit(srcW, srcH, dstW, dstH float64, mode ContentMode) Rect {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Rect{}
	}
	if mode == ScaleToFill {
		return Rect{Width: dstW, Height: dstH}
	}

	imageAspect := srcW / srcH
	targetAspect := dstW / dstH

	var scale float64
	switch mode {
	case AspectFill:
		if targetAspect < imageAspect {
			scale = dstH / srcH
		} else {
			scale = dstW / srcW
		}
	default:
		if targetAspect > imageAspect {
			scale = dstH / srcH
		} else {
			scale = dstW / srcW
		}
	}

	w := srcW * scale
	h := srcH * scale
	return Rect{X: (dstW - w) / 2, Y: (dstH - h) / 2, Width: w, Height: h}
}
