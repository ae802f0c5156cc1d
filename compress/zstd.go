package compress

// ZstdCodec provides Zstandard compression for dump output archives.
//
// Zstd offers the best ratio of the available codecs and suits dumps that
// are kept around for later comparison (format-recovery sessions routinely
// diff dumps of the same slide across tool revisions).
//
// The implementation is selected at build time: valyala/gozstd when cgo is
// available, klauspost/compress/zstd otherwise. Both produce standard zstd
// frames and decompress each other's output.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
