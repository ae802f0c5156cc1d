// Package compress provides the block codecs used around the index core:
// decompressing zlib-deflated tile position buffers found in newer slides,
// and optionally compressing the (potentially very large) diagnostic dump
// output produced by the walk package.
//
// Codecs operate on whole byte slices. Everything the package touches is
// bounded: a position buffer is one non-hierarchical record, and a dump is
// buffered by its sink before compression, so no streaming interface is
// needed.
//
// Zstd has two implementations selected by build tag: a cgo binding
// (valyala/gozstd) when cgo is available, and a pure Go fallback
// (klauspost/compress/zstd) otherwise.
package compress
