package imagebundle

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-imagebundle/codec"
	"badc0de.net/pkg/go-imagebundle/paths"
	"badc0de.net/pkg/go-imagebundle/sprite"
)

const (
	// StyleHead returns the style block separately, for the caller to place
	// into the document head.
	StyleHead = "head"
	// StyleInline prepends the style block to the rewritten markup.
	StyleInline = "inline"
)

// DefaultPlaceholder is the transparent image bundled tags point at.
const DefaultPlaceholder = "/images/clear.gif"

// Config holds everything a Bundler needs. The zero value is not usable; start
// from DefaultConfig or LoadConfig.
type Config struct {
	// ClassFilter limits bundling to <img> tags whose class attribute
	// contains this text. Empty bundles every local image.
	ClassFilter string `toml:"class_filter"`

	SpriteFormat string `toml:"sprite_format"`
	Placeholder  string `toml:"placeholder"`

	// PublicRoots are searched in order for image files. Sprites are written
	// below the first one, in SpriteDir.
	PublicRoots []string `toml:"public_roots"`
	SpriteDir   string   `toml:"sprite_dir"`

	// StyleTarget is StyleHead or StyleInline.
	StyleTarget string `toml:"style_target"`

	// Interpolation names the resize filter, see sprite.ParseInterpolation.
	Interpolation string `toml:"interpolation"`

	// Strict fails a bundle on malformed tags instead of skipping them.
	Strict bool `toml:"strict"`

	// InlineSprite embeds the sprite in the CSS as a data URL.
	InlineSprite bool `toml:"inline_sprite"`

	JPEGQuality int `toml:"jpeg_quality"`
}

// DefaultConfig returns the defaults: png sprites in the directory named by
// $IMAGE_BUNDLE_SPRITE_BASE_DIR (or "sprites") below the current directory.
func DefaultConfig() Config {
	return Config{
		SpriteFormat:  "png",
		Placeholder:   DefaultPlaceholder,
		PublicRoots:   []string{"."},
		SpriteDir:     paths.SpriteDirFromEnv(),
		StyleTarget:   StyleHead,
		Interpolation: "lanczos3",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys the file sets
// override the defaults; unknown keys are logged and ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	for _, k := range md.Undecoded() {
		glog.Warningf("config %s: unknown key %q", path, k.String())
	}
	return cfg, cfg.Validate()
}

// Validate checks that the config describes a usable bundler.
func (c Config) Validate() error {
	if !codec.Supported(c.SpriteFormat) {
		return errors.Wrapf(codec.ErrUnsupportedFormat, "sprite_format %q", c.SpriteFormat)
	}
	if strings.TrimSpace(c.Placeholder) == "" {
		return errors.New("placeholder must not be empty")
	}
	if len(c.PublicRoots) == 0 {
		return errors.New("at least one public root is required")
	}
	if strings.Trim(c.SpriteDir, "/") == "" {
		return errors.New("sprite_dir must name a directory below the public root")
	}
	for _, seg := range strings.Split(c.SpriteDir, "/") {
		if seg == ".." {
			return errors.Wrapf(paths.ErrOutsideRoot, "sprite_dir %q", c.SpriteDir)
		}
	}
	switch c.StyleTarget {
	case StyleHead, StyleInline:
	default:
		return errors.Errorf("style_target must be %q or %q, not %q", StyleHead, StyleInline, c.StyleTarget)
	}
	if _, err := sprite.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return errors.Errorf("jpeg_quality %d out of range 0-100", c.JPEGQuality)
	}
	return nil
}
