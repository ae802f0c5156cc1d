package binio

import (
	"fmt"

	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
)

// CheckWordStream validates the shape of the index word stream: the bytes
// from headerOffset to size must divide evenly into 4-byte words.
//
// Decoders call this before chasing any pointer so that a malformed stream
// length fails fast with errs.ErrCorruptIndex instead of surfacing later
// as a confusing truncated read mid-record.
func CheckWordStream(size, headerOffset int64) error {
	if headerOffset < 0 || headerOffset > size {
		return fmt.Errorf("%w: header offset %d in stream of %d bytes", errs.ErrInvalidOffset, headerOffset, size)
	}
	if (size-headerOffset)%format.WordSize != 0 {
		return fmt.Errorf("%w: %d bytes after header offset %d is not a multiple of the word size",
			errs.ErrCorruptIndex, size-headerOffset, headerOffset)
	}

	return nil
}

// NumWords returns the number of whole words between headerOffset and
// size. The caller is expected to have validated the stream shape with
// CheckWordStream first.
func NumWords(size, headerOffset int64) int64 {
	if headerOffset >= size {
		return 0
	}

	return (size - headerOffset) / format.WordSize
}
