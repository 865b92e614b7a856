// Package bundle holds the data model shared by the image bundling packages:
// image references found in markup, the deduplicated image descriptors, the
// ordered registry that defines the sprite's packing order, and the dimension
// resolution rules used to compute effective image sizes.
//
// Descriptors are created by the markup rewriter on the first occurrence of a
// new fingerprint. They are immutable afterwards, except for XOffset, which the
// sprite compositor assigns exactly once while laying out the sprite.
package bundle
