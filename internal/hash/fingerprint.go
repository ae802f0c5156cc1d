// Package hash computes container fingerprints.
//
// A fingerprint is the xxHash64 of the raw index file bytes. It is cheap
// enough to compute on every open and stable across copies of a slide, so
// format-recovery sessions use it to tell captures apart and dedupe dump
// archives.
package hash

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes the xxHash64 of the given bytes.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FingerprintReader computes the xxHash64 of everything readable from r.
func FingerprintReader(r io.Reader) (uint64, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

// ID computes the xxHash64 of the given string, used for slide identity
// keys derived from the descriptor (version + slide ID).
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
