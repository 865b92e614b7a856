package markup

import (
	"regexp"

	"badc0de.net/pkg/go-imagebundle/bundle"
)

// attrRE matches one name="value" or name='value' pair. Whitespace around
// the equals sign is allowed. Unquoted values and bare attributes don't match
// and are skipped.
var attrRE = regexp.MustCompile(`([^\s="'<>/]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// ParseAttributes tokenizes the attribute text of a single tag into ordered
// name/value pairs. Names are kept exactly as written. Text that doesn't form
// a quoted pair is ignored.
func ParseAttributes(text string) []bundle.Attr {
	var attrs []bundle.Attr
	for _, m := range attrRE.FindAllStringSubmatchIndex(text, -1) {
		a := bundle.Attr{Name: text[m[2]:m[3]]}
		if m[4] >= 0 {
			a.Value = text[m[4]:m[5]]
		} else {
			a.Value = text[m[6]:m[7]]
		}
		attrs = append(attrs, a)
	}
	return attrs
}
