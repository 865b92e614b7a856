package markup

import (
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-imagebundle/bundle"
	"badc0de.net/pkg/go-imagebundle/codec"
	"badc0de.net/pkg/go-imagebundle/paths"
)

var (
	// ErrMissingSource marks an <img> tag without a src attribute.
	ErrMissingSource = errors.New("img tag has no src attribute")

	// ErrBadDimension marks an <img> tag whose height or width is not a
	// positive integer.
	ErrBadDimension = errors.New("img tag has an invalid height or width")
)

// Finder maps a src attribute to a file.
type Finder interface {
	Find(src string) (string, error)
}

// Prober reads image metadata.
type Prober interface {
	Probe(file string) (codec.Metadata, error)
}

// Rewriter replaces bundled <img> tags with placeholders, registering each
// image in a bundle.Registry.
type Rewriter struct {
	// ClassFilter restricts bundling to tags whose class attribute contains
	// this text. Empty bundles every local image.
	ClassFilter string

	// Placeholder replaces the src of every bundled image.
	Placeholder string

	// Strict turns malformed tags into errors. Otherwise they are copied
	// through unchanged and counted in Output.Skipped.
	Strict bool

	Finder Finder
	Prober Prober
}

// Output is the result of a rewrite pass.
type Output struct {
	Markup   string
	Registry *bundle.Registry

	// Bundled counts rewritten tags, including duplicates.
	Bundled int
	// Skipped counts malformed tags left unchanged.
	Skipped int
}

type probed struct {
	file string
	md   codec.Metadata
}

// Rewrite performs a single pass over markup. An image that can't be found or
// read fails the whole rewrite, since every registered image must end up in
// the sprite.
func (rw *Rewriter) Rewrite(markup string) (*Output, error) {
	out := &Output{Registry: bundle.NewRegistry()}
	cache := make(map[string]probed)

	b := &strings.Builder{}
	b.Grow(len(markup))

	for _, tok := range Tokenize(markup) {
		if tok.Kind != ImageToken || (rw.ClassFilter != "" && !tok.HasClass(rw.ClassFilter)) {
			b.WriteString(tok.Raw)
			continue
		}

		if src, ok := tok.Attr("src"); ok && paths.IsRemote(src) {
			glog.V(2).Infof("markup: leaving remote image %q alone", src)
			b.WriteString(tok.Raw)
			continue
		}
		ref, err := NewImageRef(tok.Attrs)
		if err != nil {
			if rw.Strict {
				return nil, errors.Wrapf(err, "tag %q", tok.Raw)
			}
			glog.Warningf("markup: skipping malformed tag %q: %v", tok.Raw, err)
			out.Skipped++
			b.WriteString(tok.Raw)
			continue
		}

		p, ok := cache[ref.Src]
		if !ok {
			file, err := rw.Finder.Find(ref.Src)
			if err != nil {
				return nil, errors.Wrapf(err, "locating image %q", ref.Src)
			}
			md, err := rw.Prober.Probe(file)
			if err != nil {
				return nil, errors.Wrapf(err, "reading metadata of image %q", ref.Src)
			}
			p = probed{file: file, md: md}
			cache[ref.Src] = p
		}

		size, err := bundle.ResolveDimensions(bundle.Size{W: p.md.Width, H: p.md.Height}, ref.Width, ref.Height)
		if err != nil {
			return nil, errors.Wrapf(err, "image %q", ref.Src)
		}
		d := out.Registry.Register(ref.Src, p.file, p.md.Width, p.md.Height, size.W, size.H)
		glog.V(2).Infof("markup: %q as %dx%d -> %s", ref.Src, size.W, size.H, d.Class)

		rw.writeTag(b, tok, ref, d)
		out.Bundled++
	}

	out.Markup = b.String()
	return out, nil
}

// writeTag emits the rewritten tag: src, class, height and width first, then
// the remaining attributes in their original order.
func (rw *Rewriter) writeTag(b *strings.Builder, tok Token, ref *bundle.ImageRef, d *bundle.ImageDescriptor) {
	class := d.Class
	if ref.Class != "" {
		class += " " + ref.Class
	}

	b.WriteString(tok.Open)
	writeAttr(b, "src", rw.Placeholder)
	writeAttr(b, "class", class)
	writeAttr(b, "height", strconv.Itoa(d.Height))
	writeAttr(b, "width", strconv.Itoa(d.Width))
	for _, a := range ref.Passthrough {
		writeAttr(b, a.Name, a.Value)
	}
	b.WriteString(tok.Close)
}

func writeAttr(b *strings.Builder, name, value string) {
	q := `"`
	if strings.Contains(value, `"`) {
		q = `'`
	}
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString("=")
	b.WriteString(q)
	b.WriteString(value)
	b.WriteString(q)
}

// NewImageRef builds an image reference from a tag's attributes. When an
// attribute repeats, the last occurrence wins.
func NewImageRef(attrs []bundle.Attr) (*bundle.ImageRef, error) {
	ref := &bundle.ImageRef{}
	hasSrc := false
	for _, a := range attrs {
		var err error
		switch a.Name {
		case "src":
			ref.Src = strings.TrimSpace(a.Value)
			hasSrc = ref.Src != ""
		case "height":
			ref.Height, err = parseDimension(a.Value)
		case "width":
			ref.Width, err = parseDimension(a.Value)
		case "class":
			ref.Class = strings.TrimSpace(a.Value)
		default:
			ref.Passthrough = append(ref.Passthrough, a)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s=%q", a.Name, a.Value)
		}
	}
	if !hasSrc {
		return nil, ErrMissingSource
	}
	return ref, nil
}

// parseDimension reads the leading integer of v, so "16px" is 16.
func parseDimension(v string) (int, error) {
	v = strings.TrimSpace(v)
	n := 0
	for n < len(v) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, ErrBadDimension
	}
	d, err := strconv.Atoi(v[:n])
	if err != nil || d <= 0 {
		return 0, ErrBadDimension
	}
	return d, nil
}
