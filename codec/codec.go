// Package codec reads image metadata and pixels from source files and encodes
// composed sprites.
//
// Decoders for png, gif and jpeg come from the standard library; bmp, tiff and
// webp are registered from golang.org/x/image, ico (favicons, png or bmp
// entries) from github.com/biessek/golang-ico. Sprites can be written as png,
// gif, jpeg, bmp or tiff.
package codec

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	_ "github.com/biessek/golang-ico"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when a sprite is requested in a format no
// encoder exists for.
var ErrUnsupportedFormat = errors.New("unsupported sprite format")

// Metadata describes a source image without its pixel data.
type Metadata struct {
	Width  int
	Height int

	// Size is the file's size in bytes.
	Size int64

	// Format is the name the decoder registered itself under, e.g. "png".
	Format string
}

// Codec is the boundary to image files: metadata reads, full decodes and
// sprite encoding.
type Codec interface {
	// Probe reads only the header of the image at file.
	Probe(file string) (Metadata, error)

	// Load decodes the full image at file.
	Load(file string) (image.Image, error)

	// Encode writes img to w in the passed format.
	Encode(w io.Writer, img image.Image, format string) error
}

// Files is a Codec working on the local filesystem.
type Files struct {
	// JPEGQuality is used for jpeg sprites; zero means jpeg.DefaultQuality.
	JPEGQuality int

	// JPEGBackground fills transparent areas of jpeg sprites; nil means white.
	JPEGBackground color.Color
}

var _ Codec = (*Files)(nil)

func (c *Files) Probe(file string) (Metadata, error) {
	f, err := os.Open(file)
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "opening %q for probe", file)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "reading image header of %q", file)
	}
	st, err := f.Stat()
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "stat %q", file)
	}
	return Metadata{Width: cfg.Width, Height: cfg.Height, Size: st.Size(), Format: format}, nil
}

func (c *Files) Load(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", file)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %q", file)
	}
	return img, nil
}

func (c *Files) Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch Normalize(format) {
	case "png":
		err = png.Encode(w, img)
	case "gif":
		// Room for 255 colors plus the transparent one added by the quantizer.
		err = gif.Encode(w, img, &gif.Options{
			NumColors: 256,
			Quantizer: quantize.MedianCutQuantizer{AddTransparent: true},
		})
	case "jpeg":
		q := c.JPEGQuality
		if q <= 0 {
			q = jpeg.DefaultQuality
		}
		err = jpeg.Encode(w, c.flatten(img), &jpeg.Options{Quality: q})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "encoding %s", format)
	}
	return nil
}

// flatten composes img onto an opaque background, since jpeg has no alpha.
func (c *Files) flatten(img image.Image) image.Image {
	bg := c.JPEGBackground
	if bg == nil {
		bg = color.White
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

// Normalize maps format aliases to the canonical encoder name: "JPG" becomes
// "jpeg", "tif" becomes "tiff".
func Normalize(format string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}

// Supported reports whether sprites can be encoded in format.
func Supported(format string) bool {
	switch Normalize(format) {
	case "png", "gif", "jpeg", "bmp", "tiff":
		return true
	}
	return false
}

// ContentType returns the MIME type of a sprite format.
func ContentType(format string) string {
	switch f := Normalize(format); f {
	case "png", "gif", "jpeg", "bmp", "tiff", "webp":
		return "image/" + f
	}
	return "application/octet-stream"
}
