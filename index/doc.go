// Package index decodes and encodes the MIRAX binary index file.
//
// The index is a pointer-indirection tree over a stream of 4-byte
// little-endian words: a short preamble (version string plus slide ID
// echo) is followed by two root pointers, one per record table. The
// hierarchical table holds one record per zoom level, each a chain of
// pages listing (tile index, offset, length, file number) tuples; the
// non-hierarchical table holds single-slot records locating auxiliary
// blobs (associated images and the tile position buffer) inside the
// numbered companion data files.
//
// Reader resolves records from an index stream, Builder writes synthetic
// index files with the same layout, and Container ties a descriptor, an
// index file and the companion data files together into one slide.
//
// All traversal is sequential and single-threaded: every pointer is only
// known after the previous read completes, so no concurrency is used or
// needed. A Reader holds no mutable state beyond its traversal cursor.
package index
