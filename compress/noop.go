package compress

// NoOpCodec bypasses data without compression. It is the default codec for
// dump sinks and matches uncompressed position buffers.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a codec that passes data through unchanged.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns the input slice as-is without copying.
//
// The returned slice shares the input's memory; callers must not modify
// the input afterwards if they keep the result.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is without copying.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
