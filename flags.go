package imagebundle

import (
	"flag"

	"badc0de.net/pkg/go-imagebundle/paths"
)

// Flags mirrors Config on a flag set. Only flags given on the command line
// override the config file.
type Flags struct {
	fs *flag.FlagSet

	configPath    string
	classFilter   string
	spriteFormat  string
	placeholder   string
	publicRoots   paths.RootList
	spriteDir     string
	styleTarget   string
	interpolation string
	strict        bool
	inlineSprite  bool
	jpegQuality   int
}

// SetupFlags registers the bundler flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	d := DefaultConfig()
	f := &Flags{fs: fs}
	fs.StringVar(&f.configPath, "config", "", "TOML file with bundler settings; flags given explicitly take precedence")
	fs.StringVar(&f.classFilter, "class", d.ClassFilter, "bundle only <img> tags whose class attribute contains this text; empty bundles all local images")
	fs.StringVar(&f.spriteFormat, "format", d.SpriteFormat, "sprite image format: png, gif, jpeg, bmp or tiff")
	fs.StringVar(&f.placeholder, "placeholder", d.Placeholder, "src given to bundled <img> tags")
	paths.SetupRootsFlag(fs, "public_root", &f.publicRoots)
	paths.SetupSpriteDirFlag(fs, "sprite_dir", &f.spriteDir)
	fs.StringVar(&f.styleTarget, "style_target", d.StyleTarget, "where the style block goes: head or inline")
	fs.StringVar(&f.interpolation, "interpolation", d.Interpolation, "filter for scaling images: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	fs.BoolVar(&f.strict, "strict", d.Strict, "fail on malformed <img> tags instead of leaving them alone")
	fs.BoolVar(&f.inlineSprite, "inline_sprite", d.InlineSprite, "embed the sprite into the CSS as a data URL")
	fs.IntVar(&f.jpegQuality, "jpeg_quality", d.JPEGQuality, "quality of jpeg sprites, 1-100; 0 picks the encoder default")
	return f
}

// Config returns the config file's settings, or the defaults, with the
// explicitly set flags applied on top. Call it after parsing.
func (f *Flags) Config() (Config, error) {
	cfg := DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = LoadConfig(f.configPath); err != nil {
			return Config{}, err
		}
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "class":
			cfg.ClassFilter = f.classFilter
		case "format":
			cfg.SpriteFormat = f.spriteFormat
		case "placeholder":
			cfg.Placeholder = f.placeholder
		case "public_root":
			cfg.PublicRoots = append([]string(nil), f.publicRoots...)
		case "sprite_dir":
			cfg.SpriteDir = f.spriteDir
		case "style_target":
			cfg.StyleTarget = f.styleTarget
		case "interpolation":
			cfg.Interpolation = f.interpolation
		case "strict":
			cfg.Strict = f.strict
		case "inline_sprite":
			cfg.InlineSprite = f.inlineSprite
		case "jpeg_quality":
			cfg.JPEGQuality = f.jpegQuality
		}
	})
	return cfg, cfg.Validate()
}
