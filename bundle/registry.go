package bundle

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ClassPrefix is prepended to every fingerprint to form a CSS class name. CSS
// identifiers may not start with a digit, so the prefix is never empty.
const ClassPrefix = "bndl"

// Attr is a single attribute of a markup tag.
type Attr struct {
	Name  string
	Value string
}

// ImageRef is one occurrence of a bundled image in the markup.
type ImageRef struct {
	Src string

	// Height and Width hold the explicit tag attributes. Zero means the
	// attribute was not given.
	Height int
	Width  int

	// Passthrough lists all other attributes in their original order.
	Passthrough []Attr

	// Class is the original value of the class attribute, possibly empty.
	Class string
}

// ImageDescriptor is a resolved, deduplicated image. All ImageRefs with the
// same source path and effective size share one descriptor.
type ImageDescriptor struct {
	Src  string
	File string

	NaturalWidth  int
	NaturalHeight int

	Width  int
	Height int

	Fingerprint string
	Class       string

	// XOffset is the horizontal position inside the sprite. It is -1 until
	// the sprite has been laid out.
	XOffset int
}

// Fingerprint derives the deduplication key of an image from its source path
// and effective size. The source file's byte size is not part of the key.
func Fingerprint(src string, width, height int) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(fmt.Sprintf("%s:%d:%d", src, height, width)))
}

// Registry maps fingerprints to descriptors, remembering the order in which
// fingerprints were first seen. That order is the sprite's packing order and
// is never changed.
type Registry struct {
	order  []*ImageDescriptor
	byHash map[string]*ImageDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byHash: make(map[string]*ImageDescriptor)}
}

// Lookup returns the descriptor already registered for the source path and
// effective size, if any.
func (r *Registry) Lookup(src string, width, height int) (*ImageDescriptor, bool) {
	d, ok := r.byHash[Fingerprint(src, width, height)]
	return d, ok
}

// Register returns the descriptor for the image, creating and appending a new
// one if this fingerprint has not been seen yet. An existing descriptor is
// returned unchanged.
func (r *Registry) Register(src, file string, naturalW, naturalH, width, height int) *ImageDescriptor {
	fp := Fingerprint(src, width, height)
	if d, ok := r.byHash[fp]; ok {
		return d
	}
	d := &ImageDescriptor{
		Src:           src,
		File:          file,
		NaturalWidth:  naturalW,
		NaturalHeight: naturalH,
		Width:         width,
		Height:        height,
		Fingerprint:   fp,
		Class:         ClassPrefix + fp,
		XOffset:       -1,
	}
	r.byHash[fp] = d
	r.order = append(r.order, d)
	return d
}

// Len returns the number of unique images.
func (r *Registry) Len() int {
	return len(r.order)
}

// Descriptors returns the descriptors in first-seen order. The returned slice
// must not be modified.
func (r *Registry) Descriptors() []*ImageDescriptor {
	return r.order
}

// Fingerprints returns all fingerprints in first-seen order.
func (r *Registry) Fingerprints() []string {
	fps := make([]string, 0, len(r.order))
	for _, d := range r.order {
		fps = append(fps, d.Fingerprint)
	}
	return fps
}
