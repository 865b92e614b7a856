// Package style renders the CSS rules that show each bundled image's slot of
// a sprite.
package style

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-imagebundle/bundle"
	"badc0de.net/pkg/go-imagebundle/codec"
)

// Emit renders one rule per registry entry, in registry order. Entries must
// have been laid out.
func Emit(reg *bundle.Registry, spriteURL string) string {
	b := &strings.Builder{}
	for _, d := range reg.Descriptors() {
		fmt.Fprintf(b, ".%s { background-image: url(%s); background-position: -%dpx 0px; }\n", d.Class, spriteURL, d.XOffset)
	}
	return b.String()
}

// EmitInline is like Emit, but embeds the encoded sprite as a data URL instead
// of referencing a file.
func EmitInline(reg *bundle.Registry, sprite []byte, format string) (string, error) {
	if reg.Len() == 0 {
		return "", nil
	}
	u, err := dataurl.New(sprite, codec.ContentType(format)).MarshalText()
	if err != nil {
		return "", errors.Wrap(err, "encoding sprite as data url")
	}
	return Emit(reg, `"`+string(u)+`"`), nil
}

// Block wraps CSS rules into a style element, ready to be placed in a
// document head. Empty CSS gives an empty block.
func Block(css string) string {
	if css == "" {
		return ""
	}
	return "\n<style type=\"text/css\">\n" + css + "</style>\n"
}
