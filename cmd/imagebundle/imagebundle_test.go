package main

import (
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-imagebundle/ttesting"
)

func TestInjectHead(t *testing.T) {
	for _, tc := range []struct{ doc, want string }{
		{"<html><HEAD><title>x</title></HEAD><body></body></html>", "<html><HEAD><title>x</title>STYLE</HEAD><body></body></html>"},
		{"<p>fragment</p>", "STYLE<p>fragment</p>"},
	} {
		ttesting.AssertEqualString(t, tc.doc, injectHead(tc.doc, "STYLE"), tc.want)
	}
}

func TestReadInputConcatenatesFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.html")
	b := filepath.Join(dir, "b.html")
	os.WriteFile(a, []byte("<p>a</p>"), 0644)
	os.WriteFile(b, []byte("<p>b</p>"), 0644)

	got, err := readInput([]string{a, b})
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	ttesting.AssertEqualString(t, "document", got, "<p>a</p><p>b</p>")

	if _, err := readInput([]string{filepath.Join(dir, "missing.html")}); err == nil {
		t.Errorf("missing file accepted")
	}
}
