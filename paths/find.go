// Package paths maps the src attribute of an image tag to a file below one of
// the configured public roots.
package paths

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	// ErrOutsideRoot is returned for src values that would escape the public
	// root, such as "/../secret.png".
	ErrOutsideRoot = errors.New("path escapes the public root")

	// ErrNotFound is returned when no public root contains the file.
	ErrNotFound = errors.New("file not found under any public root")
)

// IsRemote reports whether src refers to something other than a local file
// below the public root: absolute http(s) URLs, protocol-relative URLs and
// data URLs. Remote images are never bundled.
func IsRemote(src string) bool {
	s := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "//") ||
		strings.HasPrefix(s, "data:")
}

// Resolver finds image files below a list of public roots.
type Resolver struct {
	// Roots are searched in order. The first root is also where generated
	// files are written.
	Roots []string
}

// NewResolver returns a resolver searching the passed roots in order.
func NewResolver(roots ...string) *Resolver {
	return &Resolver{Roots: roots}
}

// Join returns the file path of src below root, rejecting any src that would
// leave root. Query strings and fragments are dropped.
func Join(root, src string) (string, error) {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	for _, seg := range strings.Split(src, "/") {
		if seg == ".." {
			return "", errors.Wrapf(ErrOutsideRoot, "src %q", src)
		}
	}
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+src))), nil
}

// Find locates src below the first root that contains it, and returns the
// path to the file.
func (r *Resolver) Find(src string) (string, error) {
	if len(r.Roots) == 0 {
		return "", errors.Wrapf(ErrNotFound, "src %q: no public roots configured", src)
	}
	var tried []string
	for _, root := range r.Roots {
		p, err := Join(root, src)
		if err != nil {
			return "", err
		}
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			glog.V(2).Infof("paths.Find(%q)=%s", src, p)
			return p, nil
		}
		tried = append(tried, p)
	}
	return "", errors.Wrapf(ErrNotFound, "src %q (tried %s)", src, strings.Join(tried, ", "))
}

// Primary returns the first root, where generated files are placed.
func (r *Resolver) Primary() string {
	if len(r.Roots) == 0 {
		return "."
	}
	return r.Roots[0]
}
