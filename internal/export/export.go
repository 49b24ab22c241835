// Package export encodes flattened boards as PNG, JPEG or PDF.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 90

// ErrUnsupportedFormat is returned for names ParseFormat does not know.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	PDF
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PDF:
		return "pdf"
	default:
		return "png"
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case PDF:
		return ".pdf"
	default:
		return ".png"
	}
}

// SupportsAlpha reports whether the format keeps transparent pixels.
func (f Format) SupportsAlpha() bool {
	return f == PNG
}

// ParseFormat maps a name such as "png" or "jpg" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case PDF:
		err = writePDF(w, img)
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// Base64 encodes img in format f and returns it as standard base64.
func Base64(img image.Image, f Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Save writes img to folder/filename with the format's extension, creating
// folder if needed, and returns the written path.
func Save(folder, filename string, img image.Image, f Format) (string, error) {
	if folder != "" {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return "", fmt.Errorf("create folder %s: %w", folder, err)
		}
	}
	path := filepath.Join(folder, filename+f.Ext())

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(file, img, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	log.Printf("[EXPORT] Saved %s", path)
	return path, nil
}
