package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-imagebundle/ttesting"
	ico "github.com/biessek/golang-ico"
	"github.com/pkg/errors"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 0x80, 0xFF})
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("creating %s: %v", p, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", p, err)
	}
	return p
}

func TestProbe(t *testing.T) {
	p := writePNG(t, t.TempDir(), "a.png", 12, 7)
	c := &Files{}

	md, err := c.Probe(p)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", md.Width, 12)
	ttesting.AssertEqualInt(t, "height", md.Height, 7)
	ttesting.AssertEqualString(t, "format", md.Format, "png")
	st, _ := os.Stat(p)
	ttesting.AssertEqualInt(t, "size", int(md.Size), int(st.Size()))
}

func TestProbeAndLoadICO(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	p := filepath.Join(t.TempDir(), "favicon.ico")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := ico.Encode(f, src); err != nil {
		t.Fatalf("writing icon: %v", err)
	}
	f.Close()

	c := &Files{}
	md, err := c.Probe(p)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	ttesting.AssertEqualString(t, "format", md.Format, "ico")
	ttesting.AssertEqualInt(t, "width", md.Width, 16)
	ttesting.AssertEqualInt(t, "height", md.Height, 16)

	img, err := c.Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ttesting.AssertEqualInt(t, "decoded width", img.Bounds().Dx(), 16)
}

func TestProbeRejectsNonImages(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.png")
	os.WriteFile(p, []byte("not an image"), 0644)

	if _, err := (&Files{}).Probe(p); err == nil {
		t.Errorf("Probe of a text file succeeded")
	}
	if _, err := (&Files{}).Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Errorf("Load of a missing file succeeded")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 1, color.RGBA{0xFF, 0, 0, 0xFF})
	c := &Files{}

	for _, format := range []string{"png", "gif", "jpg", "JPEG", "bmp", "tif"} {
		t.Run(format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := c.Encode(buf, src, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			cfg, got, err := image.DecodeConfig(buf)
			if err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			ttesting.AssertEqualString(t, "format", got, Normalize(format))
			ttesting.AssertEqualInt(t, "width", cfg.Width, 4)
			ttesting.AssertEqualInt(t, "height", cfg.Height, 3)
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	err := (&Files{}).Encode(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), "xcf")
	if errors.Cause(err) != ErrUnsupportedFormat {
		t.Errorf("got %v; want ErrUnsupportedFormat", err)
	}
	if Supported("xcf") {
		t.Errorf("Supported(xcf) = true")
	}
}

func TestContentType(t *testing.T) {
	ttesting.AssertEqualString(t, "jpg", ContentType("jpg"), "image/jpeg")
	ttesting.AssertEqualString(t, "png", ContentType("PNG"), "image/png")
	ttesting.AssertEqualString(t, "unknown", ContentType("xcf"), "application/octet-stream")
}
