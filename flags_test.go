package imagebundle

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-imagebundle/ttesting"
)

func TestFlagsOverrideConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bundle.toml")
	if err := os.WriteFile(p, []byte("class_filter = \"bundle\"\nsprite_format = \"gif\"\nstrict = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := SetupFlags(fs)
	err := fs.Parse([]string{"-config", p, "-format", "png", "-public_root", "a,b", "-public_root", "c"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := f.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	ttesting.AssertEqualString(t, "class from file", cfg.ClassFilter, "bundle")
	ttesting.AssertEqualString(t, "format from flag", cfg.SpriteFormat, "png")
	ttesting.AssertEqualInt(t, "roots from flag", len(cfg.PublicRoots), 3)
	if !cfg.Strict {
		t.Errorf("strict from file lost")
	}
}

func TestFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := SetupFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := f.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	ttesting.AssertEqualString(t, "placeholder", cfg.Placeholder, DefaultPlaceholder)
	ttesting.AssertEqualString(t, "root", cfg.PublicRoots[0], ".")
}

func TestFlagsInvalid(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := SetupFlags(fs)
	if err := fs.Parse([]string{"-style_target", "footer"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Config(); err == nil {
		t.Errorf("invalid style target accepted")
	}
}
