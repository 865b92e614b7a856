// Package web exposes a Bundler over HTTP: markup is posted to /bundle, and
// the generated sprites and the placeholder image are served from the paths
// the rewritten markup and CSS refer to.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	imagebundle "badc0de.net/pkg/go-imagebundle"
	"badc0de.net/pkg/go-imagebundle/codec"
	"badc0de.net/pkg/go-imagebundle/markup"
	"badc0de.net/pkg/go-imagebundle/paths"
)

// MaxMarkupSize limits the request body accepted by /bundle.
const MaxMarkupSize = 8 << 20

// maxVariants bounds the number of override bundlers kept around.
const maxVariants = 64

type Handler struct {
	bundler *imagebundle.Bundler

	// Bundlers for class and format overrides passed in the query.
	variantLock sync.Mutex
	variants    map[string]*imagebundle.Bundler

	placeholder     []byte
	placeholderETag string
}

// NewHandler constructs a web handler bundling with b.
func NewHandler(b *imagebundle.Bundler) (*Handler, error) {
	ph, err := transparentGIF()
	if err != nil {
		return nil, err
	}
	return &Handler{
		bundler:         b,
		variants:        make(map[string]*imagebundle.Bundler),
		placeholder:     ph,
		placeholderETag: fmt.Sprintf(`"placeholder:%d"`, len(ph)),
	}, nil
}

// transparentGIF encodes a single transparent pixel.
func transparentGIF() ([]byte, error) {
	img := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Transparent})
	b := &bytes.Buffer{}
	if err := gif.Encode(b, img, nil); err != nil {
		return nil, errors.Wrap(err, "encoding placeholder")
	}
	return b.Bytes(), nil
}

// variant returns the bundler for the passed overrides, creating it on first
// use.
func (h *Handler) variant(class, format string) (*imagebundle.Bundler, error) {
	cfg := h.bundler.Config()
	if (class == "" || class == cfg.ClassFilter) && (format == "" || format == cfg.SpriteFormat) {
		return h.bundler, nil
	}

	h.variantLock.Lock()
	defer h.variantLock.Unlock()

	key := class + "\x00" + format
	if b, ok := h.variants[key]; ok {
		return b, nil
	}
	if class != "" {
		cfg.ClassFilter = class
	}
	if format != "" {
		cfg.SpriteFormat = format
	}
	b, err := imagebundle.New(cfg)
	if err != nil {
		return nil, err
	}
	if len(h.variants) < maxVariants {
		h.variants[key] = b
	}
	return b, nil
}

type bundleResponse struct {
	Markup  string              `json:"markup"`
	CSS     string              `json:"css"`
	Style   string              `json:"style"`
	Sprite  string              `json:"sprite,omitempty"`
	Images  []imagebundle.Image `json:"images"`
	Skipped int                 `json:"skipped"`
}

func (h *Handler) bundleHandler(w http.ResponseWriter, r *http.Request) {
	b, err := h.variant(r.URL.Query().Get("class"), r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxMarkupSize))
	if err != nil {
		http.Error(w, "failed to read markup", http.StatusBadRequest)
		return
	}

	res, err := b.Bundle(string(body))
	if err != nil {
		switch errors.Cause(err) {
		case markup.ErrMissingSource, markup.ErrBadDimension, paths.ErrOutsideRoot:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to bundle images", http.StatusInternalServerError)
			glog.Errorf("error bundling: %v", err)
		}
		return
	}

	resp := bundleResponse{
		Markup:  res.Markup,
		CSS:     res.CSS,
		Style:   res.Style,
		Images:  res.Images,
		Skipped: res.Skipped,
	}
	if resp.Images == nil {
		resp.Images = []imagebundle.Image{}
	}
	if res.Sprite != nil {
		resp.Sprite = res.Sprite.URL
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		glog.Errorf("error writing bundle response: %v", err)
	}
}

func (h *Handler) spriteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key, ext := vars["key"], vars["ext"]
	if !codec.Supported(ext) {
		http.Error(w, "no such sprite", http.StatusNotFound)
		return
	}

	// Sprites never change once written, so the key is a strong validator.
	etag := `"` + key + `"`
	mime := codec.ContentType(ext)
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	file, _ := h.bundler.Compositor().PathsFor(key, ext)
	f, err := os.Open(file)
	if err != nil {
		http.Error(w, "no such sprite", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", etag)
	if s, err := f.Stat(); err == nil {
		w.Header().Set("Last-Modified", s.ModTime().UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		glog.Errorf("error sending sprite %s: %v", file, err)
	}
}

func (h *Handler) placeholderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("If-None-Match") == h.placeholderETag {
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		w.Header().Set("ETag", h.placeholderETag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.Header().Set("ETag", h.placeholderETag)
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(h.placeholder)
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/bundle", h.bundleHandler).Methods(http.MethodPost)

	dir := strings.Trim(h.bundler.Compositor().Dir, "/")
	r.HandleFunc("/"+dir+"/{key:[0-9a-f]{64}}.{ext:[a-z]+}", h.spriteHandler).Methods(http.MethodGet, http.MethodHead)

	// A placeholder on another host is not ours to serve.
	if p := h.bundler.Config().Placeholder; strings.HasPrefix(p, "/") && !paths.IsRemote(p) {
		r.HandleFunc(p, h.placeholderHandler).Methods(http.MethodGet, http.MethodHead)
	}
}
