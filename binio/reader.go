// Package binio provides primitive, bounds-checked decoding of fixed-width
// little-endian integers from a random-access byte stream.
//
// The package distinguishes two ways a read can run out of bytes: a clean
// end of data before any byte was consumed is io.EOF (end of table), while
// a partial fixed-width record is errs.ErrTruncatedRead (corruption). All
// seeks are validated against the discovered stream size and fail with
// errs.ErrInvalidOffset rather than positioning the cursor out of bounds.
package binio

import (
	"fmt"
	"io"

	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
)

// Reader decodes fixed-width little-endian integers from an io.ReadSeeker.
//
// The reader discovers the stream size once at construction and validates
// every Seek against it. It keeps a single cursor; reads advance the cursor
// sequentially, mirroring the data-dependent traversal order of the index
// format. Reader is not safe for concurrent use.
type Reader struct {
	rs     io.ReadSeeker
	engine endian.EndianEngine
	size   int64
	pos    int64
}

// NewReader wraps rs in a bounds-checked little-endian reader.
//
// The current position of rs is reset to the start of the stream. The
// stream size is discovered by seeking to the end once; rs must therefore
// support io.SeekEnd (regular files and bytes.Reader both do).
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("discovering stream size: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding stream: %w", err)
	}

	return &Reader{
		rs:     rs,
		engine: endian.GetLittleEndianEngine(),
		size:   size,
	}, nil
}

// Size returns the total stream size in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// Offset returns the current cursor position in bytes from the start of
// the stream.
func (r *Reader) Offset() int64 {
	return r.pos
}

// Seek repositions the cursor to the absolute byte offset off.
//
// Seeking exactly to Size is allowed (the next read reports io.EOF); any
// negative offset or offset beyond Size fails with errs.ErrInvalidOffset.
func (r *Reader) Seek(off int64) error {
	if off < 0 || off > r.size {
		return fmt.Errorf("%w: seek to %d in stream of %d bytes", errs.ErrInvalidOffset, off, r.size)
	}
	if _, err := r.rs.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", off, err)
	}
	r.pos = off

	return nil
}

// ReadFull reads exactly len(buf) bytes into buf.
//
// Returns io.EOF when the cursor is already at end of stream and no byte
// could be read, and errs.ErrTruncatedRead when only part of buf could be
// filled.
func (r *Reader) ReadFull(buf []byte) error {
	n, err := io.ReadFull(r.rs, buf)
	r.pos += int64(n)
	switch {
	case err == nil:
		return nil
	case err == io.EOF:
		return io.EOF
	case err == io.ErrUnexpectedEOF:
		return fmt.Errorf("%w: wanted %d bytes at offset %d, got %d",
			errs.ErrTruncatedRead, len(buf), r.pos-int64(n), n)
	default:
		return fmt.Errorf("read at offset %d: %w", r.pos-int64(n), err)
	}
}

// ReadInt32 reads one 4-byte little-endian signed integer at the cursor.
func (r *Reader) ReadInt32() (int32, error) {
	var buf [format.WordSize]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}

	return int32(r.engine.Uint32(buf[:])), nil
}

// ReadUint8 reads one byte at the cursor.
func (r *Reader) ReadUint8() (uint8, error) {
	var buf [1]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

// ReadInt32At seeks to the absolute offset off and reads one word there.
func (r *Reader) ReadInt32At(off int64) (int32, error) {
	if err := r.Seek(off); err != nil {
		return 0, err
	}

	return r.ReadInt32()
}

// ExpectInt32 reads one word and verifies it equals want. A mismatch is a
// structural violation and fails with errs.ErrCorruptIndex; running out of
// bytes keeps the ReadInt32 error taxonomy.
func (r *Reader) ExpectInt32(want int32) error {
	off := r.pos
	v, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if v != want {
		return fmt.Errorf("%w: expected %d at offset %d, found %d", errs.ErrCorruptIndex, want, off, v)
	}

	return nil
}
