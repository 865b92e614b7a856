// Package imagebundle rewrites HTML so that small images are fetched as one
// sprite instead of one request each.
//
// Every <img> tag selected for bundling has its src replaced by a transparent
// placeholder and gets a generated class; the generated CSS shows the right
// slot of the sprite as the element's background. Tags repeating the same
// image at the same size share one slot.
//
//	b, err := imagebundle.New(imagebundle.DefaultConfig())
//	...
//	res, err := b.Bundle(html)
//	// res.Markup is the rewritten HTML, res.Style goes into <head>.
package imagebundle

import (
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-imagebundle/bundle"
	"badc0de.net/pkg/go-imagebundle/codec"
	"badc0de.net/pkg/go-imagebundle/markup"
	"badc0de.net/pkg/go-imagebundle/paths"
	"badc0de.net/pkg/go-imagebundle/sprite"
	"badc0de.net/pkg/go-imagebundle/style"
)

// Bundler runs rewrite, composition and style emission for one Config. It is
// safe for concurrent use.
type Bundler struct {
	cfg        Config
	finder     markup.Finder
	codec      codec.Codec
	compositor *sprite.Compositor
}

// Option customizes a Bundler.
type Option func(*Bundler)

// WithCodec replaces the filesystem codec.
func WithCodec(c codec.Codec) Option {
	return func(b *Bundler) { b.codec = c }
}

// WithFinder replaces the public root lookup.
func WithFinder(f markup.Finder) Option {
	return func(b *Bundler) { b.finder = f }
}

// New validates cfg and returns a Bundler for it.
func New(cfg Config, opts ...Option) (*Bundler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	interp, _ := sprite.ParseInterpolation(cfg.Interpolation)

	resolver := paths.NewResolver(cfg.PublicRoots...)
	b := &Bundler{
		cfg:    cfg,
		finder: resolver,
		codec:  &codec.Files{JPEGQuality: cfg.JPEGQuality},
	}
	for _, o := range opts {
		o(b)
	}
	b.compositor = sprite.New(resolver.Primary(), cfg.SpriteDir, codec.Normalize(cfg.SpriteFormat), b.codec)
	b.compositor.Interpolation = interp
	return b, nil
}

// Config returns the configuration the bundler was built with.
func (b *Bundler) Config() Config {
	return b.cfg
}

// Compositor returns the compositor writing this bundler's sprites.
func (b *Bundler) Compositor() *sprite.Compositor {
	return b.compositor
}

// Image describes one slot of the sprite.
type Image struct {
	Src    string `json:"src"`
	Class  string `json:"class"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
}

// Result is the outcome of bundling one document.
type Result struct {
	// Markup is the rewritten document. With StyleInline it starts with
	// the style block.
	Markup string

	// CSS holds the bare rules, Style the same rules wrapped in a <style>
	// element. Both are empty when nothing was bundled.
	CSS   string
	Style string

	// Sprite is nil when nothing was bundled.
	Sprite *sprite.Sprite
	Images []Image

	// Skipped counts malformed tags left unchanged.
	Skipped int
}

// Bundle rewrites markup, makes sure the sprite exists and renders its CSS.
// A document without bundled images comes back unchanged, and nothing is
// written to disk.
func (b *Bundler) Bundle(doc string) (*Result, error) {
	rw := &markup.Rewriter{
		ClassFilter: b.cfg.ClassFilter,
		Placeholder: b.cfg.Placeholder,
		Strict:      b.cfg.Strict,
		Finder:      b.finder,
		Prober:      b.codec,
	}
	out, err := rw.Rewrite(doc)
	if err != nil {
		return nil, errors.Wrap(err, "rewriting markup")
	}

	res := &Result{Markup: out.Markup, Skipped: out.Skipped}
	if out.Registry.Len() == 0 {
		glog.V(1).Infof("bundle: no images to bundle (%d skipped)", out.Skipped)
		return res, nil
	}

	s, err := b.compositor.Compose(out.Registry)
	if err != nil {
		return nil, errors.Wrap(err, "composing sprite")
	}
	res.Sprite = s

	if b.cfg.InlineSprite {
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, errors.Wrap(err, "reading sprite for inlining")
		}
		if res.CSS, err = style.EmitInline(out.Registry, data, s.Format); err != nil {
			return nil, err
		}
	} else {
		res.CSS = style.Emit(out.Registry, s.URL)
	}
	res.Style = style.Block(res.CSS)
	if b.cfg.StyleTarget == StyleInline {
		res.Markup = res.Style + res.Markup
	}

	res.Images = images(out.Registry)
	glog.V(1).Infof("bundle: %d tags, %d images into %s", out.Bundled, len(res.Images), s.URL)
	return res, nil
}

func images(reg *bundle.Registry) []Image {
	ds := reg.Descriptors()
	imgs := make([]Image, 0, len(ds))
	for _, d := range ds {
		imgs = append(imgs, Image{Src: d.Src, Class: d.Class, Width: d.Width, Height: d.Height, X: d.XOffset})
	}
	return imgs
}
