// Package markup scans markup for <img> tags and rewrites the ones that get
// bundled into a sprite.
//
// Scanning is done with the golang.org/x/net/html tokenizer, so tags inside
// comments and raw text elements (script, style, noscript, textarea, title)
// are left alone. Everything that isn't a bundled image tag is copied through
// byte for byte.
package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"badc0de.net/pkg/go-imagebundle/bundle"
)

// TokenKind tells literal text from image tags.
type TokenKind int

const (
	LiteralToken TokenKind = iota
	ImageToken
)

func (k TokenKind) String() string {
	switch k {
	case LiteralToken:
		return "literal"
	case ImageToken:
		return "image"
	}
	return "bad value"
}

// Token is a piece of markup. Concatenating the Raw text of all tokens
// returned by Tokenize yields the original input.
type Token struct {
	Kind TokenKind
	Raw  string

	// The fields below are only set for ImageToken.

	// Open is "<img" as written in the input.
	Open string
	// AttrText is everything between Open and Close.
	AttrText string
	// Close is the original tag ending including leading whitespace, e.g.
	// ">", "/>" or " />".
	Close string
	// Attrs holds the quoted attributes parsed from AttrText.
	Attrs []bundle.Attr
}

// closeRE matches the end of a tag.
var closeRE = regexp.MustCompile(`\s*/?>$`)

// Tokenize splits markup into literal text and image tags. Adjacent literal
// pieces are merged.
func Tokenize(markup string) []Token {
	z := html.NewTokenizer(strings.NewReader(markup))

	var toks []Token
	litStart, pos := 0, 0
	flush := func(end int) {
		if end > litStart {
			toks = append(toks, Token{Kind: LiteralToken, Raw: markup[litStart:end]})
		}
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF, or a tag left open at the end of the input; either way,
			// whatever wasn't tokenized stays literal.
			break
		}
		start := pos
		pos += len(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		if name, _ := z.TagName(); string(name) != "img" {
			continue
		}
		tok, ok := imageTag(markup[start:pos])
		if !ok {
			continue
		}
		flush(start)
		toks = append(toks, tok)
		litStart = pos
	}
	flush(len(markup))
	return toks
}

// imageTag splits the raw text of an <img> tag into its parts.
func imageTag(raw string) (Token, bool) {
	if len(raw) < len("<img>") || !strings.EqualFold(raw[:4], "<img") {
		return Token{}, false
	}
	loc := closeRE.FindStringIndex(raw)
	if loc == nil || loc[0] < 4 {
		return Token{}, false
	}
	attrText := raw[4:loc[0]]
	return Token{
		Kind:     ImageToken,
		Raw:      raw,
		Open:     raw[:4],
		AttrText: attrText,
		Close:    raw[loc[0]:],
		Attrs:    ParseAttributes(attrText),
	}, true
}

// Attr returns the value of the last attribute with the passed name.
func (t Token) Attr(name string) (string, bool) {
	var (
		v     string
		found bool
	)
	for _, a := range t.Attrs {
		if a.Name == name {
			v, found = a.Value, true
		}
	}
	return v, found
}

// HasClass reports whether the tag's class attribute contains class anywhere
// in its value, so "bundled" and "no-bundle" both match "bundle".
func (t Token) HasClass(class string) bool {
	classes, ok := t.Attr("class")
	return ok && strings.Contains(classes, class)
}
