package compress

import (
	"fmt"

	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
)

// Compressor compresses a complete byte payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified. Internal buffers may be reused between
	// calls.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a complete byte payload.
//
// The interface mirrors Compressor but is kept separate: the index reader
// only ever needs the decompression half (position buffers arrive
// compressed from the scanner, never written back).
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// bytes. It validates the data format and returns an error if the
	// data is corrupted or was produced by a different algorithm.
	//
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
	format.CompressionZlib: NewZlibCodec(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}
