package bundle

import (
	"github.com/pkg/errors"
)

// ErrEmptyImage is returned when a source image reports a zero natural size,
// which makes aspect-preserving scaling impossible.
var ErrEmptyImage = errors.New("image has zero natural size")

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// ResolveDimensions combines an image's natural size with optional explicit
// width and height (zero means not given) into the effective size.
//
// When only one dimension is given, the other one is scaled to keep the
// natural aspect ratio. Integer division is used, so results are truncated
// toward zero; fingerprints depend on this being reproduced exactly.
func ResolveDimensions(natural Size, explicitW, explicitH int) (Size, error) {
	if natural.W <= 0 || natural.H <= 0 {
		return Size{}, errors.Wrapf(ErrEmptyImage, "natural size %dx%d", natural.W, natural.H)
	}

	switch {
	case explicitW > 0 && explicitH > 0:
		return Size{W: explicitW, H: explicitH}, nil
	case explicitH > 0:
		return Size{W: natural.W * explicitH / natural.H, H: explicitH}, nil
	case explicitW > 0:
		return Size{W: explicitW, H: natural.H * explicitW / natural.W}, nil
	default:
		return natural, nil
	}
}
