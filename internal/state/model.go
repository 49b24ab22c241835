package state

import (
	"image"
	"image/color"
	"log"
	"strconv"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"MarkupBoard/internal/geom"
)

// SketchData is one freehand stroke. A fully transparent color erases.
type SketchData struct {
	ID            int          `json:"id"`
	StrokeColor   color.NRGBA  `json:"-"`
	StrokeWidth   float64      `json:"strokeWidth"`
	Points        []geom.Point `json:"points"`
	IsTranslucent bool         `json:"isTranslucent"`
}

// NewSketchData creates an empty stroke.
func NewSketchData(id int, c color.NRGBA, width float64) *SketchData {
	return &SketchData{
		ID:            id,
		StrokeColor:   c,
		StrokeWidth:   width,
		IsTranslucent: c.A > 0 && c.A < 255,
	}
}

// Key is the stroke's identifier in the history log.
func (s *SketchData) Key() string {
	return strconv.Itoa(s.ID)
}

// IsEraser reports whether the stroke clears pixels instead of painting.
func (s *SketchData) IsEraser() bool {
	return s.StrokeColor.A == 0
}

// AddPoint appends p and returns the area the new segment covers.
func (s *SketchData) AddPoint(p geom.Point) geom.Rect {
	s.Points = append(s.Points, p)
	return geom.Bounds(s.tail(), s.StrokeWidth)
}

func (s *SketchData) tail() []geom.Point {
	n := len(s.Points)
	if n < 2 {
		return s.Points
	}
	return s.Points[n-2:]
}

// Draw paints the whole stroke onto dst.
func (s *SketchData) Draw(dst *image.RGBA) {
	s.paint(dst, s.Points)
}

// DrawLastPoint paints only the newest segment.
func (s *SketchData) DrawLastPoint(dst *image.RGBA) {
	s.paint(dst, s.tail())
}

func (s *SketchData) paint(dst *image.RGBA, pts []geom.Point) {
	if len(pts) == 0 || dst == nil {
		return
	}
	area := geom.Bounds(pts, s.StrokeWidth).RoundOut().Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	mask := strokeMask(pts, s.StrokeWidth, area)
	if s.IsEraser() {
		draw.DrawMask(dst, area, image.Transparent, image.Point{}, mask, image.Point{}, draw.Src)
		return
	}
	draw.DrawMask(dst, area, image.NewUniform(s.StrokeColor), image.Point{}, mask, image.Point{}, draw.Over)
}

// strokeMask rasterizes the polyline with round caps into an opaque mask
// covering area. A single point becomes a dot.
func strokeMask(pts []geom.Point, width float64, area image.Rectangle) *image.RGBA {
	pm := gg.NewPixmap(area.Dx(), area.Dy())
	dc := gg.NewContext(area.Dx(), area.Dy(), gg.WithPixmap(pm))
	defer dc.Close()

	dc.Translate(float64(-area.Min.X), float64(-area.Min.Y))
	dc.SetColor(color.White)

	var err error
	if len(pts) == 1 {
		dc.DrawCircle(pts[0].X, pts[0].Y, width/2)
		err = dc.Fill()
	} else {
		dc.SetLineWidth(width)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		err = dc.Stroke()
	}
	if err != nil {
		log.Printf("[BOARD] stroke raster: %v", err)
	}
	return pm.ToImage()
}
