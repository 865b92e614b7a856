// Package sprite paints the images of a bundle left to right into a single
// strip and stores it on disk under a name derived from the bundle's content.
//
// A sprite is only ever written once: if a file already exists at the
// content-addressed path it is reused as is, without looking at its pixels.
// Writes go through a temporary file and a rename, so a concurrent reader never
// sees a half-written sprite, and concurrent compositions of the same bundle
// inside one process are collapsed into one.
package sprite

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/draw"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-imagebundle/bundle"
	"badc0de.net/pkg/go-imagebundle/codec"
)

// Sprite describes a composed strip.
type Sprite struct {
	// Key is the content hash naming the sprite.
	Key    string
	Format string

	// File is the path on disk, URL the path the browser requests.
	File string
	URL  string

	Width  int
	Height int

	// Cached is set when the file already existed and nothing was painted.
	Cached bool
}

// Compositor composes and stores sprites.
type Compositor struct {
	// Root is the public root directory. Sprites go to Root/Dir.
	Root string
	// Dir is relative to Root and doubles as the URL path prefix.
	Dir string
	// Format is passed to the codec for encoding and used as file extension.
	Format string

	// Interpolation scales images whose effective size differs from their
	// natural size. The zero value is resize.NearestNeighbor; New picks
	// resize.Lanczos3.
	Interpolation resize.InterpolationFunction

	Codec codec.Codec

	group singleflight.Group
}

// New returns a compositor writing format sprites to root/dir.
func New(root, dir, format string, c codec.Codec) *Compositor {
	return &Compositor{
		Root:          root,
		Dir:           dir,
		Format:        format,
		Interpolation: resize.Lanczos3,
		Codec:         c,
	}
}

// CacheKey hashes the ordered fingerprints of a bundle. The same images in
// the same order always map to the same key.
func CacheKey(fingerprints []string) string {
	sum := sha256.Sum256([]byte(strings.Join(fingerprints, "|")))
	return hex.EncodeToString(sum[:])
}

// Layout assigns every descriptor its horizontal offset in registry order and
// returns the resulting sprite size: the sum of all widths by the largest
// height.
func Layout(reg *bundle.Registry) (width, height int) {
	for _, d := range reg.Descriptors() {
		d.XOffset = width
		width += d.Width
		if d.Height > height {
			height = d.Height
		}
	}
	return width, height
}

// Paths returns the file path and URL of the sprite with the passed key.
func (c *Compositor) Paths(key string) (file, url string) {
	return c.PathsFor(key, c.Format)
}

// PathsFor is like Paths, for a sprite stored in another format below the
// same directory.
func (c *Compositor) PathsFor(key, format string) (file, url string) {
	name := key + "." + strings.ToLower(format)
	dir := strings.Trim(c.Dir, "/")
	return filepath.Join(c.Root, filepath.FromSlash(dir), name), path.Join("/", dir, name)
}

// Compose lays out the registry and makes sure the sprite exists on disk. An
// empty registry yields a nil sprite and no filesystem access.
//
// If any image can't be read, nothing is written and the error is returned.
func (c *Compositor) Compose(reg *bundle.Registry) (*Sprite, error) {
	if reg.Len() == 0 {
		return nil, nil
	}

	w, h := Layout(reg)
	key := CacheKey(reg.Fingerprints())
	file, url := c.Paths(key)
	s := &Sprite{Key: key, Format: c.Format, File: file, URL: url, Width: w, Height: h}

	if exists(file) {
		glog.V(1).Infof("sprite %s exists, reusing it", file)
		s.Cached = true
		return s, nil
	}

	cached, err, _ := c.group.Do(file, func() (interface{}, error) {
		// Another caller may have finished writing while we waited.
		if exists(file) {
			return true, nil
		}
		img, err := c.Render(reg, w, h)
		if err != nil {
			return false, err
		}
		if err := c.write(file, img); err != nil {
			return false, err
		}
		glog.Infof("sprite %s written: %d images, %dx%d", file, reg.Len(), w, h)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	s.Cached = cached.(bool)
	return s, nil
}

// Render paints all images of a laid-out registry onto a transparent canvas
// of the passed size.
func (c *Compositor) Render(reg *bundle.Registry, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, d := range reg.Descriptors() {
		if d.XOffset < 0 {
			return nil, errors.Errorf("image %q has not been laid out", d.Src)
		}
		src, err := c.Codec.Load(d.File)
		if err != nil {
			return nil, errors.Wrapf(err, "loading image %q", d.Src)
		}
		if sz := src.Bounds().Size(); sz.X != d.Width || sz.Y != d.Height {
			src = resize.Resize(uint(d.Width), uint(d.Height), src, c.Interpolation)
		}
		dst := image.Rect(d.XOffset, 0, d.XOffset+d.Width, d.Height)
		draw.Draw(img, dst, src, src.Bounds().Min, draw.Src)
	}
	return img, nil
}

func (c *Compositor) write(file string, img image.Image) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating sprite directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(file)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary sprite file")
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := c.Codec.Encode(tmp, img, c.Format); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "encoding sprite %s", file)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting sprite permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temporary sprite file")
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return errors.Wrapf(err, "moving sprite into place at %s", file)
	}
	return nil
}

func exists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}

// ParseInterpolation maps a filter name to an nfnt/resize interpolation
// function.
func ParseInterpolation(name string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(name) {
	case "nearest", "nearestneighbor":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "bicubic":
		return resize.Bicubic, nil
	case "mitchell", "mitchellnetravali":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "", "lanczos3":
		return resize.Lanczos3, nil
	}
	return resize.Lanczos3, errors.Errorf("unknown interpolation %q", name)
}
