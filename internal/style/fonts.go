package style

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Built-in font face names.
const (
	FaceRegular = "regular"
	FaceBold    = "bold"
	FaceItalic  = "italic"
	FaceMono    = "mono"
)

var fontData = map[string][]byte{
	FaceRegular: goregular.TTF,
	FaceBold:    gobold.TTF,
	FaceItalic:  goitalic.TTF,
	FaceMono:    gomono.TTF,
}

// FaceName normalizes a font name to a built-in face, falling back to
// regular for anything unknown.
func FaceName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := fontData[name]; ok {
		return name
	}
	return FaceRegular
}

// FontData returns the TrueType data of a built-in face.
func FontData(name string) []byte {
	return fontData[FaceName(name)]
}

type faceKey struct {
	name string
	size float64
}

var (
	fontsMu sync.Mutex
	parsed  = map[string]*opentype.Font{}
	faces   = map[faceKey]font.Face{}
)

// Face returns a cached font.Face for a built-in font at a pixel size.
func Face(name string, size float64) (font.Face, error) {
	name = FaceName(name)
	key := faceKey{name: name, size: size}

	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := faces[key]; ok {
		return f, nil
	}

	otf, ok := parsed[name]
	if !ok {
		var err error
		otf, err = opentype.Parse(fontData[name])
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		parsed[name] = otf
	}

	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s@%.1f: %w", name, size, err)
	}
	faces[key] = face
	return face, nil
}
