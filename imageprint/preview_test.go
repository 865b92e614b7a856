package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/go-imagebundle/ttesting"
)

func strip() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{0xFF, 0, 0, 0xFF})
		}
		img.Set(4, y, color.RGBA{0, 0, 0xFF, 0xFF})
	}
	return img
}

func TestPreviewNoColor(t *testing.T) {
	b := &bytes.Buffer{}
	err := Preview(b, strip(), []Slot{
		{Class: "bndl-a", Src: "/a.png", X: 0, Width: 4, Height: 2},
		{Class: "bndl-b", Src: "/b.png", X: 4, Width: 1, Height: 2},
	}, Options{Mode: ModeNoColor, Columns: 80})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	ttesting.AssertEqualInt(t, "lines", len(lines), 4)
	ttesting.AssertEqualString(t, "pixels", lines[0], "==========  ")
	ttesting.AssertEqualString(t, "legend", lines[2], ".bndl-a  x=0 4x2  /a.png")
	if strings.Contains(b.String(), "\x1b[") {
		t.Errorf("escape sequences in no-color output")
	}
}

func TestPreview24bit(t *testing.T) {
	b := &bytes.Buffer{}
	if err := Preview(b, strip(), nil, Options{Mode: Mode24bit, Columns: 80}); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.Contains(b.String(), "\x1b[48;2;255;0;0m") {
		t.Errorf("no red background in %q", b.String())
	}
}

func TestFit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 20))
	got := fit(img, 40)
	ttesting.AssertEqualInt(t, "width", got.Bounds().Dx(), 20)
	ttesting.AssertEqualInt(t, "height", got.Bounds().Dy(), 4)

	ttesting.AssertEqualInt(t, "small image untouched", fit(img, 400).Bounds().Dx(), 100)
}

func TestAverage(t *testing.T) {
	r, g, b := average(strip(), image.Rect(0, 0, 6, 2))
	// Four red and one blue column, transparent pixels ignored.
	ttesting.AssertEqualInt(t, "red", int(r), 204)
	ttesting.AssertEqualInt(t, "green", int(g), 0)
	ttesting.AssertEqualInt(t, "blue", int(b), 51)
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("256color"); err != nil || m != Mode256Color {
		t.Errorf("ParseMode(256color) = %v, %v", m, err)
	}
	if _, err := ParseMode("ascii"); err == nil {
		t.Errorf("ParseMode(ascii) succeeded")
	}
}
