package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCodec provides zlib (RFC 1950) compression.
//
// Slide scanners deflate the tile position buffer in newer container
// revisions; the index reader uses the Decompress half to recover the raw
// 9-byte entry table. The Compress half exists so the synthetic container
// builder can produce compressed position buffers for tests.
type ZlibCodec struct{}

var _ Codec = (*ZlibCodec)(nil)

// NewZlibCodec creates a new zlib codec with default settings.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

// Compress deflates the input data into a zlib stream.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream back to the original bytes.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return decompressed, nil
}

// LooksLikeZlib reports whether data plausibly starts a zlib stream:
// CMF 0x78 (deflate, 32K window) followed by a valid FCHECK. A raw
// position table starts with a tile flag byte, which on every observed
// slide is a small camera index, so the sniff has not misfired in
// practice. Callers that know the descriptor version can bypass it.
func LooksLikeZlib(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	if data[0] != 0x78 {
		return false
	}

	return (uint16(data[0])<<8|uint16(data[1]))%31 == 0
}
