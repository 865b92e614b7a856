package bundle

import (
	"testing"

	"badc0de.net/pkg/go-imagebundle/ttesting"
	"github.com/pkg/errors"
)

func TestResolveDimensions(t *testing.T) {
	for _, tc := range []struct {
		name                 string
		natural              Size
		explicitW, explicitH int
		want                 Size
	}{
		{"neither given", Size{100, 50}, 0, 0, Size{100, 50}},
		{"both given distorts", Size{100, 50}, 10, 40, Size{10, 40}},
		{"height keeps aspect", Size{100, 50}, 0, 25, Size{50, 25}},
		{"width keeps aspect", Size{100, 50}, 30, 0, Size{30, 15}},
		{"truncates width", Size{16, 16}, 0, 6, Size{6, 6}},
		{"truncates toward zero", Size{10, 3}, 0, 2, Size{6, 2}},
		{"truncates height", Size{3, 10}, 2, 0, Size{2, 6}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveDimensions(tc.natural, tc.explicitW, tc.explicitH)
			if err != nil {
				t.Fatalf("ResolveDimensions: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveDimensionsEmptyImage(t *testing.T) {
	_, err := ResolveDimensions(Size{0, 16}, 0, 8)
	if errors.Cause(err) != ErrEmptyImage {
		t.Errorf("got %v; want ErrEmptyImage", err)
	}
}

func TestRegistryDeduplicates(t *testing.T) {
	r := NewRegistry()

	a := r.Register("/favicon.ico", "/pub/favicon.ico", 16, 16, 16, 16)
	b := r.Register("/favicon.ico", "/pub/favicon.ico", 16, 16, 6, 6)
	c := r.Register("/favicon.ico", "/pub/favicon.ico", 16, 16, 16, 16)

	if a != c {
		t.Errorf("same path and size registered twice: %p != %p", a, c)
	}
	ttesting.AssertNotEqualString(t, "different sizes get different classes", a.Class, b.Class)
	ttesting.AssertEqualInt(t, "unique images", r.Len(), 2)
	ttesting.AssertEqualString(t, "first registered first", r.Descriptors()[0].Fingerprint, a.Fingerprint)
	ttesting.AssertEqualString(t, "second registered second", r.Descriptors()[1].Fingerprint, b.Fingerprint)
	ttesting.AssertEqualString(t, "class derives from fingerprint", a.Class, ClassPrefix+a.Fingerprint)
	ttesting.AssertEqualInt(t, "offset unset before layout", a.XOffset, -1)

	if d, ok := r.Lookup("/favicon.ico", 6, 6); !ok || d != b {
		t.Errorf("Lookup(6x6) = %v, %v; want %p", d, ok, b)
	}
	if _, ok := r.Lookup("/favicon.ico", 7, 7); ok {
		t.Errorf("Lookup(7x7) found an entry that was never registered")
	}
}

func TestRegistryKeepsFirstDescriptor(t *testing.T) {
	r := NewRegistry()
	first := r.Register("/a.png", "/one/a.png", 10, 10, 5, 5)
	again := r.Register("/a.png", "/two/a.png", 20, 20, 5, 5)

	ttesting.AssertEqualString(t, "file from first registration", again.File, first.File)
	ttesting.AssertEqualInt(t, "natural width from first registration", again.NaturalWidth, 10)
}

func TestFingerprintIsStable(t *testing.T) {
	ttesting.AssertEqualString(t, "deterministic", Fingerprint("/a.png", 3, 4), Fingerprint("/a.png", 3, 4))
	ttesting.AssertNotEqualString(t, "width and height are not interchangeable", Fingerprint("/a.png", 3, 4), Fingerprint("/a.png", 4, 3))
	ttesting.AssertNotEqualString(t, "path matters", Fingerprint("/a.png", 3, 4), Fingerprint("/b.png", 3, 4))
	ttesting.AssertEqualInt(t, "fixed length", len(Fingerprint("/a.png", 3, 4)), 16)
}
