package style

import (
	"strings"
	"testing"

	"badc0de.net/pkg/go-imagebundle/bundle"
	"badc0de.net/pkg/go-imagebundle/ttesting"
)

func laidOut() *bundle.Registry {
	reg := bundle.NewRegistry()
	a := reg.Register("/favicon.ico", "f", 16, 16, 16, 16)
	b := reg.Register("/favicon.ico", "f", 16, 16, 6, 6)
	a.XOffset = 0
	b.XOffset = 16
	return reg
}

func TestEmit(t *testing.T) {
	reg := laidOut()
	ds := reg.Descriptors()

	got := Emit(reg, "/sprites/abc.png")
	want := "." + ds[0].Class + " { background-image: url(/sprites/abc.png); background-position: -0px 0px; }\n" +
		"." + ds[1].Class + " { background-image: url(/sprites/abc.png); background-position: -16px 0px; }\n"
	ttesting.AssertEqualString(t, "rules", got, want)
}

func TestEmitEmpty(t *testing.T) {
	ttesting.AssertEqualString(t, "no rules", Emit(bundle.NewRegistry(), "/x.png"), "")
	ttesting.AssertEqualString(t, "no block", Block(""), "")
}

func TestBlock(t *testing.T) {
	got := Block(".a { }\n")
	ttesting.AssertEqualString(t, "wrapped", got, "\n<style type=\"text/css\">\n.a { }\n</style>\n")
}

func TestEmitInline(t *testing.T) {
	reg := laidOut()
	got, err := EmitInline(reg, []byte("GIF89a"), "gif")
	if err != nil {
		t.Fatalf("EmitInline: %v", err)
	}
	if n := strings.Count(got, `url("data:image/gif;base64,`); n != 2 {
		t.Errorf("got %d data urls in %q; want 2", n, got)
	}
	if !strings.Contains(got, "background-position: -16px 0px;") {
		t.Errorf("offset missing from %q", got)
	}
}
