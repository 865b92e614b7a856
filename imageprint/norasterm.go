//go:build !go1.13 || windows
// +build !go1.13 windows

package imageprint

import (
	"image"
	"io"
)

func graphicsCapable() bool {
	return false
}

// PrintGraphics is not supported below Go 1.13 or on windows.
func PrintGraphics(w io.Writer, i image.Image) (bool, error) {
	return false, nil
}
