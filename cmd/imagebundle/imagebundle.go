// Command imagebundle rewrites HTML so that its images are served from one
// sprite.
//
// The files named on the command line, or stdin, are read as one document.
// The rewritten document goes to stdout or -out.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	imagebundle "badc0de.net/pkg/go-imagebundle"
	"badc0de.net/pkg/go-imagebundle/codec"
	"badc0de.net/pkg/go-imagebundle/imageprint"
)

var (
	outPath     = flag.String("out", "", "file receiving the rewritten markup; stdout if empty")
	cssOutPath  = flag.String("css_out", "", "file receiving the generated CSS; if empty the style block is placed according to -style_target")
	preview     = flag.Bool("preview", false, "print the sprite and its slots to the terminal")
	previewMode = flag.String("preview_mode", "auto", "preview rendering: auto, graphics, 24bit, 256color or nocolor")

	bundleFlags = imagebundle.SetupFlags(flag.CommandLine)
)

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	var sb strings.Builder
	for _, a := range args {
		b, err := os.ReadFile(a)
		if err != nil {
			return "", err
		}
		sb.Write(b)
	}
	return sb.String(), nil
}

// injectHead places the style block before </head>, or at the start of the
// document if it has no head.
func injectHead(doc, style string) string {
	if i := strings.Index(strings.ToLower(doc), "</head>"); i >= 0 {
		return doc[:i] + style + doc[i:]
	}
	return style + doc
}

func main() {
	flagutil.Parse()

	cfg, err := bundleFlags.Config()
	if err != nil {
		glog.Fatalf("configuration: %v", err)
	}
	mode, err := imageprint.ParseMode(*previewMode)
	if err != nil {
		glog.Fatal(err)
	}

	b, err := imagebundle.New(cfg)
	if err != nil {
		glog.Fatal(err)
	}

	doc, err := readInput(flag.Args())
	if err != nil {
		glog.Fatalf("reading markup: %v", err)
	}

	res, err := b.Bundle(doc)
	if err != nil {
		glog.Fatalf("bundling: %v", err)
	}
	if res.Skipped > 0 {
		glog.Warningf("%d malformed img tags left unchanged", res.Skipped)
	}

	markup := res.Markup
	if *cssOutPath != "" {
		if err := os.WriteFile(*cssOutPath, []byte(res.CSS), 0644); err != nil {
			glog.Fatalf("writing css: %v", err)
		}
	} else if cfg.StyleTarget == imagebundle.StyleHead {
		markup = injectHead(markup, res.Style)
	}

	out := os.Stdout
	if *outPath != "" {
		if out, err = os.Create(*outPath); err != nil {
			glog.Fatalf("creating output: %v", err)
		}
	}
	if _, err := io.WriteString(out, markup); err != nil {
		glog.Fatalf("writing markup: %v", err)
	}
	if out != os.Stdout {
		if err := out.Close(); err != nil {
			glog.Fatalf("closing output: %v", err)
		}
	}

	if res.Sprite != nil {
		glog.Infof("%d images in %s (%dx%d)", len(res.Images), res.Sprite.File, res.Sprite.Width, res.Sprite.Height)
	}
	if *preview {
		printPreview(res, mode, *outPath == "")
	}
}

func printPreview(res *imagebundle.Result, mode imageprint.Mode, toStderr bool) {
	w := io.Writer(os.Stdout)
	if toStderr {
		w = os.Stderr
	}
	if res.Sprite == nil {
		fmt.Fprintln(w, "no images bundled")
		return
	}
	img, err := (&codec.Files{}).Load(res.Sprite.File)
	if err != nil {
		glog.Errorf("loading sprite for preview: %v", err)
		return
	}
	slots := make([]imageprint.Slot, 0, len(res.Images))
	for _, i := range res.Images {
		slots = append(slots, imageprint.Slot{Class: i.Class, Src: i.Src, X: i.X, Width: i.Width, Height: i.Height})
	}
	if err := imageprint.Preview(w, img, slots, imageprint.Options{Mode: mode}); err != nil {
		glog.Errorf("printing preview: %v", err)
	}
}
