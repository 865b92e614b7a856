// Package imageprint prints sprites on a terminal, followed by a legend naming
// the class that shows each slot.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"fmt"
	"image"
	ic "image/color"
	"io"

	"github.com/gookit/color"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	// ModeAuto uses a graphics protocol when the terminal speaks one, and
	// 24-bit color blocks otherwise.
	ModeAuto Mode = iota
	// ModeGraphics uses kitty, iTerm or sixel graphics through rasterm.
	ModeGraphics
	Mode24bit
	Mode256Color
	// ModeNoColor prints ascii shades without escape sequences.
	ModeNoColor
)

var modeNames = map[string]Mode{
	"auto":     ModeAuto,
	"graphics": ModeGraphics,
	"24bit":    Mode24bit,
	"256color": Mode256Color,
	"nocolor":  ModeNoColor,
}

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeNames[s]; ok {
		return m, nil
	}
	return ModeAuto, fmt.Errorf("unknown preview mode %q", s)
}

func shade(w io.Writer, col ic.Color, mode Mode) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if mode == ModeNoColor {
			fmt.Fprint(w, "  ")
		} else {
			fmt.Fprint(w, "\x1b[0m  ")
		}
		return
	}

	switch mode {
	case Mode24bit:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm  \x1b[0m", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
	case Mode256Color:
		fmt.Fprint(w, color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true).Sprint("  "))
	default:
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			fmt.Fprint(w, "..")
		case a < 64:
			fmt.Fprint(w, "--")
		case a < 128:
			fmt.Fprint(w, "==")
		default:
			fmt.Fprint(w, "##")
		}
	}
}

// PrintBlocks draws an image as two terminal cells per pixel, colored
// according to mode.
func PrintBlocks(w io.Writer, i image.Image, mode Mode) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), mode)
		}
		if mode != ModeNoColor {
			fmt.Fprint(w, "\x1b[0m")
		}
		fmt.Fprint(w, "\n")
	}
}
