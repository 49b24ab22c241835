package entity

import (
	"image"
	"testing"

	"MarkupBoard/internal/style"
)

func newTestText(t *testing.T, s string) *Text {
	t.Helper()
	tx, err := NewText(testW, testH, NewTextLayer(s, Font{Size: InitialFontSize, Color: style.Black, Face: "regular"}))
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	return tx
}

func TestHostFontSize(t *testing.T) {
	if HostFontSize(0) != InitialFontSize {
		t.Error("zero host size should select the initial size")
	}
	if HostFontSize(20) != 0.1 {
		t.Errorf("HostFontSize(20) = %v", HostFontSize(20))
	}
}

func TestTextFontSizeLimits(t *testing.T) {
	tx := newTestText(t, "Hello")
	tx.IncreaseFontSize()
	if !near(tx.TextLayer().Font.Size, InitialFontSize+FontSizeStep) {
		t.Errorf("size = %v", tx.TextLayer().Font.Size)
	}
	for i := 0; i < 50; i++ {
		tx.DecreaseFontSize()
	}
	if tx.TextLayer().Font.Size != MinFontSize {
		t.Errorf("size = %v, want %v", tx.TextLayer().Font.Size, MinFontSize)
	}
}

func TestTextKeepsCenter(t *testing.T) {
	tx := newTestText(t, "Hello")
	tx.MoveToCanvasCenter()
	before := tx.AbsoluteCenter()

	if !tx.SetText("Hello\nworld\nagain") {
		t.Fatal("SetText rejected text")
	}
	after := tx.AbsoluteCenter()
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("center moved from %v to %v", before, after)
	}
	if tx.SetText("") {
		t.Error("empty text should be ignored")
	}
	if tx.TextLayer().Text != "Hello\nworld\nagain" {
		t.Errorf("text = %q", tx.TextLayer().Text)
	}
}

func TestTextFitsCanvasWidth(t *testing.T) {
	tx := newTestText(t, "Hi")
	if w, _ := tx.Size(); w != testW {
		t.Errorf("width = %v, want canvas width", w)
	}
	if !near(tx.HolyScale(), 1) {
		t.Errorf("holyScale = %v, want 1", tx.HolyScale())
	}
}

func TestTextDraws(t *testing.T) {
	tx := newTestText(t, "WWWW")
	tx.MoveToCanvasCenter()
	dst := image.NewRGBA(image.Rect(0, 0, testW, testH))
	tx.Draw(dst, style.DefaultPaint())

	inked := false
	for x := testW/2 - 60; x < testW/2+60 && !inked; x++ {
		for y := testH/2 - 30; y < testH/2+30; y++ {
			if dst.RGBAAt(x, y).A != 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("no glyph pixels around the canvas center")
	}
	tx.Release()
}
