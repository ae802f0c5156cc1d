// Package mirax reads and validates MIRAX whole-slide index containers.
//
// A MIRAX slide is a .mrxs entry file next to a directory holding a
// Slidedat.ini descriptor, one binary index file, and numbered companion
// data files with the actual tile and image bytes. The index encodes a
// pointer-indirection tree of fixed-size little-endian records; this
// module decodes that tree into (file, offset, length) locations and can
// also walk the raw word stream heuristically when no descriptor is
// available.
//
// # Reading a slide
//
//	container, err := mirax.OpenContainer("CMU-1.mrxs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer container.Close()
//
//	records, err := container.ReadLevel(0)
//	for _, rec := range records {
//	    x, y := rec.GridXY(container.Slidedat().TilesX)
//	    fmt.Printf("tile (%d,%d): file %d, %d+%d\n", x, y, rec.FileNo, rec.Offset, rec.Length)
//	}
//
// # Format recovery without a descriptor
//
//	f, _ := os.Open("Index.dat")
//	walker, err := walk.NewWalker(f, walk.WithSink(walk.NewTextSink(os.Stdout)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = walker.Dump()
//
// # Package structure
//
// This package provides thin top-level wrappers around the index package
// for the most common use cases. The index, slidedat and walk packages
// expose the full API.
package mirax

import (
	"github.com/arloliu/mirax/index"
	"github.com/arloliu/mirax/internal/hash"
)

// OpenContainer opens the slide at path (the .mrxs entry file) and
// verifies its index preamble against the descriptor.
func OpenContainer(path string) (*index.Container, error) {
	return index.OpenContainer(path)
}

// SlideKey derives a stable 64-bit identity key from the descriptor's
// version and slide ID, the same pair the index preamble echoes.
func SlideKey(version, slideID string) uint64 {
	return hash.ID(version + slideID)
}
