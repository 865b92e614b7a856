package paths

import (
	"flag"
	"os"
	"strings"
)

// SpriteDirEnv names the environment variable holding the default sprite
// directory, relative to the public root.
const SpriteDirEnv = "IMAGE_BUNDLE_SPRITE_BASE_DIR"

// DefaultSpriteDir is used when SpriteDirEnv is unset.
const DefaultSpriteDir = "sprites"

// SpriteDirFromEnv returns the sprite directory named by the environment, or
// DefaultSpriteDir.
func SpriteDirFromEnv() string {
	if d := strings.Trim(os.Getenv(SpriteDirEnv), "/"); d != "" {
		return d
	}
	return DefaultSpriteDir
}

// RootList is a flag.Value collecting a comma-separated, repeatable list of
// public roots.
type RootList []string

func (l *RootList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *RootList) Set(v string) error {
	for _, r := range strings.Split(v, ",") {
		if r = strings.TrimSpace(r); r != "" {
			*l = append(*l, r)
		}
	}
	return nil
}

// SetupRootsFlag registers a flag with the passed name on fs that appends
// public roots to roots.
func SetupRootsFlag(fs *flag.FlagSet, flagName string, roots *RootList) {
	fs.Var(roots, flagName, "Public root directory containing the images referenced by src; may be repeated or comma-separated, searched in order")
}

// SetupSpriteDirFlag registers a string flag for the sprite directory,
// defaulting to the value from the environment.
func SetupSpriteDirFlag(fs *flag.FlagSet, flagName string, flagPtr *string) {
	fs.StringVar(flagPtr, flagName, SpriteDirFromEnv(), "Directory, relative to the first public root, receiving generated sprites (default from $"+SpriteDirEnv+")")
}
