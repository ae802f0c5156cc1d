// Package endian provides byte order utilities for decoding and encoding
// the MIRAX index word stream.
//
// The package combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single EndianEngine interface so the decoders and
// the synthetic index builder can share one engine value.
//
// The MIRAX container is little-endian throughout, so nearly all callers
// use GetLittleEndianEngine:
//
//	engine := endian.GetLittleEndianEngine()
//	word := int32(engine.Uint32(buf))
//
// GetBigEndianEngine exists for one-off experiments against byte-swapped
// captures and for symmetry in tests.
//
// All returned engines are immutable and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for byte order operations.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian,
// so it interoperates with any code expecting the standard interfaces.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. This is the byte
// order of every MIRAX on-disk structure.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
