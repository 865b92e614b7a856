package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/gookit/color"
	"github.com/nfnt/resize"
)

type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

// Slot is one image's area of a sprite.
type Slot struct {
	Class  string
	Src    string
	X      int
	Width  int
	Height int
}

// Options control Preview.
type Options struct {
	Mode Mode

	// Columns limits the width of block output. Zero asks the terminal, and
	// falls back to 80.
	Columns int
}

// Preview prints a sprite followed by one legend line per slot. Block output
// is scaled down to fit the terminal.
func Preview(w io.Writer, sprite image.Image, slots []Slot, opts Options) error {
	mode := opts.Mode
	if mode == ModeAuto {
		mode = Mode24bit
		if graphicsCapable() {
			mode = ModeGraphics
		}
	}

	if mode == ModeGraphics {
		ok, err := PrintGraphics(w, sprite)
		if err != nil {
			return err
		}
		if !ok {
			mode = Mode24bit
		}
	}
	if mode != ModeGraphics {
		PrintBlocks(w, fit(sprite, opts.Columns), mode)
	}

	for _, s := range slots {
		line := fmt.Sprintf(".%s  x=%d %dx%d  %s", s.Class, s.X, s.Width, s.Height, s.Src)
		if mode == ModeNoColor {
			fmt.Fprintln(w, line)
			continue
		}
		r, g, b := average(sprite, image.Rect(s.X, 0, s.X+s.Width, s.Height))
		fmt.Fprintln(w, color.RGB(r, g, b).Sprint(line))
	}
	return nil
}

// fit shrinks img so that two cells per pixel fit into the terminal width.
func fit(img image.Image, columns int) image.Image {
	if columns <= 0 {
		columns = 80
		if sz, err := GetTermSize(); err == nil && sz.WSCol > 0 {
			columns = int(sz.WSCol)
		}
	}
	maxW := columns / 2
	if maxW < 1 {
		maxW = 1
	}
	if img.Bounds().Dx() <= maxW {
		return img
	}
	return resize.Resize(uint(maxW), 0, img, resize.NearestNeighbor)
}

// average returns the mean color of the opaque pixels in r.
func average(img image.Image, r image.Rectangle) (uint8, uint8, uint8) {
	var sr, sg, sb, n uint64
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cR, cG, cB, cA := img.At(x, y).RGBA()
			if cA == 0 {
				continue
			}
			sr += uint64(cR >> 8)
			sg += uint64(cG >> 8)
			sb += uint64(cB >> 8)
			n++
		}
	}
	if n == 0 {
		return 0x80, 0x80, 0x80
	}
	return uint8(sr / n), uint8(sg / n), uint8(sb / n)
}
