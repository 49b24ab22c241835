package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// writePDF places img on a single page the size of the image, one point per
// pixel.
func writePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())
	if width <= 0 || height <= 0 {
		return fmt.Errorf("empty image")
	}

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return err
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("board", opts, &raster)
	p.ImageOptions("board", 0, 0, width, height, false, opts, 0, "")

	return p.Output(w)
}
