// Package geom provides the small set of 2D primitives shared by the entity
// engine, the gesture detectors and the board controller.
package geom

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// Point is a 2D point in canvas pixels.
type Point = gg.Point

// Pt creates a new Point.
func Pt(x, y float64) Point {
	return gg.Pt(x, y)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside the rectangle (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Overlaps reports whether two rectangles touch or intersect.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.Width < o.X || o.X+o.Width < r.X ||
		r.Y+r.Height < o.Y || o.Y+o.Height < r.Y)
}

// Union returns the smallest rectangle containing both rectangles.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset grows (negative d) or shrinks (positive d) the rectangle on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// RoundOut returns the smallest integer rectangle that contains r.
func (r Rect) RoundOut() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)),
		int(math.Ceil(r.Y+r.Height)),
	)
}

// Bounds computes the bounding box of a set of points, grown by padding on
// every side.
func Bounds(points []Point, padding float64) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, point := range points[1:] {
		if point.X < minX {
			minX = point.X
		}
		if point.X > maxX {
			maxX = point.X
		}
		if point.Y < minY {
			minY = point.Y
		}
		if point.Y > maxY {
			maxY = point.Y
		}
	}

	return Rect{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}
}
