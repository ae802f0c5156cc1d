// Package errs defines the sentinel errors shared by all mirax packages.
//
// Low-level read primitives return exactly one of these sentinels (possibly
// wrapped with positional context via fmt.Errorf and %w). Higher-level
// decoders never swallow them; callers match with errors.Is.
package errs

import "errors"

var (
	// ErrTruncatedRead reports that a fixed-width decode found fewer bytes
	// than it required. A clean end of data before any byte was consumed is
	// reported as io.EOF instead; ErrTruncatedRead always means a partial
	// record, which is corruption rather than end-of-table.
	ErrTruncatedRead = errors.New("truncated read")

	// ErrInvalidOffset reports a seek target that is negative or beyond the
	// discoverable file size.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrCorruptIndex reports a violated structural invariant: a bad page
	// prologue, a stream length that is not a multiple of the record size,
	// an out-of-range entry count or file number, and the like.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrFormatMismatch reports that the caller-supplied version or slide
	// identifier does not match the observed index file preamble.
	ErrFormatMismatch = errors.New("index format mismatch")

	// ErrInvalidSlidedat reports a missing or malformed key in the Slidedat
	// descriptor.
	ErrInvalidSlidedat = errors.New("invalid slidedat descriptor")

	// ErrUnsupportedCompression reports an unknown compression type for a
	// dump sink or position buffer.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)
