// Package style holds the paint and border settings shared by strokes,
// entities and canvas text.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
)

// ErrBadColor is returned when a color string cannot be parsed.
var ErrBadColor = errors.New("invalid color")

// Common colors.
var (
	Black       = color.NRGBA{A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
	Blue        = color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 255}
)

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" into a color.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
	}
	return toNRGBA(gg.Hex(hex)), nil
}

// toNRGBA rounds a gg color to 8-bit channels.
func toNRGBA(c gg.RGBA) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

// ToGG converts c to a gg color.
func ToGG(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatColor renders c as "#RRGGBB", or "#RRGGBBAA" when not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Paint is the color and width used to draw a stroke or an entity.
type Paint struct {
	Color       color.NRGBA
	StrokeWidth float64
}

// NewPaint creates a new Paint.
func NewPaint(c color.NRGBA, width float64) Paint {
	return Paint{Color: c, StrokeWidth: width}
}

// DefaultPaint is an opaque black 5px pen.
func DefaultPaint() Paint {
	return Paint{Color: Black, StrokeWidth: 5}
}

// Alpha returns the paint's alpha.
func (p Paint) Alpha() uint8 {
	return p.Color.A
}

// IsEraser reports whether the paint clears pixels instead of covering them.
func (p Paint) IsEraser() bool {
	return p.Color.A == 0
}

// IsTranslucent reports whether the paint is partially transparent.
func (p Paint) IsTranslucent() bool {
	return p.Color.A > 0 && p.Color.A < 255
}

// BorderStyle selects how the selection border is stroked.
type BorderStyle int

const (
	Dashed BorderStyle = iota
	Solid
)

func (s BorderStyle) String() string {
	if s == Solid {
		return "Solid"
	}
	return "Dashed"
}

// ParseBorderStyle maps "Dashed" or "Solid" to a BorderStyle. Anything else
// is Dashed.
func ParseBorderStyle(s string) BorderStyle {
	if strings.EqualFold(strings.TrimSpace(s), "solid") {
		return Solid
	}
	return Dashed
}

// DashPattern is the on/off pattern of a dashed border.
var DashPattern = []float64{5, 5}

// Border is the selection border drawn around a selected entity.
type Border struct {
	Color color.NRGBA
	Style BorderStyle
	Width float64
}

// DefaultBorder returns the default selection border.
func DefaultBorder() Border {
	return Border{Color: Blue, Style: Dashed, Width: 1}
}

// Visible reports whether the border draws anything.
func (b Border) Visible() bool {
	return b.Color.A > 0 && b.Width > 0
}
