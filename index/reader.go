package index

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/mirax/binio"
	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
)

// Reader resolves records from one MIRAX index stream.
//
// The reader verifies the preamble once at construction and validates the
// word stream shape before any pointer is chased. It is a read-only
// projection of the on-disk index: nothing is cached beyond the preamble
// geometry, and the underlying stream is never written. Reader is not
// safe for concurrent use.
type Reader struct {
	br           *binio.Reader
	headerOffset int64
	nonhierRoot  int64
}

// NewReader opens an index stream and verifies its preamble against the
// descriptor-supplied version and slide ID.
//
// The preamble is the version string followed by an echo of the slide ID;
// the word stream (and the hierarchical root pointer) starts immediately
// after it, with the non-hierarchical root one word later. A preamble
// that does not match fails with errs.ErrFormatMismatch; a stream whose
// remaining length is not word-aligned fails with errs.ErrCorruptIndex
// before any record decoding is attempted.
func NewReader(rs io.ReadSeeker, version, slideID string) (*Reader, error) {
	br, err := binio.NewReader(rs)
	if err != nil {
		return nil, err
	}

	if err := expectString(br, version, "index version"); err != nil {
		return nil, err
	}
	if err := expectString(br, slideID, "slide ID"); err != nil {
		return nil, err
	}

	headerOffset := int64(len(version) + len(slideID))
	if err := binio.CheckWordStream(br.Size(), headerOffset); err != nil {
		return nil, err
	}

	return &Reader{
		br:           br,
		headerOffset: headerOffset,
		nonhierRoot:  headerOffset + format.WordSize,
	}, nil
}

func expectString(br *binio.Reader, want, what string) error {
	buf := make([]byte, len(want))
	if err := br.ReadFull(buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, errs.ErrTruncatedRead) {
			return fmt.Errorf("%w: index shorter than its preamble", errs.ErrFormatMismatch)
		}

		return err
	}
	if !bytes.Equal(buf, []byte(want)) {
		return fmt.Errorf("%w: %s %q does not match descriptor value %q", errs.ErrFormatMismatch, what, buf, want)
	}

	return nil
}

// HeaderOffset returns the byte offset where the word stream starts. It
// doubles as the hierarchical root position.
func (r *Reader) HeaderOffset() int64 {
	return r.headerOffset
}

// NumWords returns the number of words in the stream.
func (r *Reader) NumWords() int64 {
	return binio.NumWords(r.br.Size(), r.headerOffset)
}

// Size returns the index stream size in bytes.
func (r *Reader) Size() int64 {
	return r.br.Size()
}

// ReadTableAt reads a run of pointer words starting at the absolute byte
// offset base, honoring the termination convention of mode: hierarchical
// tables stop at the first zero word, non-hierarchical tables skip one
// reserved zero word and stop at the next zero. The terminating zero is
// not part of the result and table order is preserved, since it carries
// the level or slot indices. An immediate terminator yields an empty
// table. Reaching end of stream ends the table like a terminator would.
func (r *Reader) ReadTableAt(base int64, mode format.TableMode) ([]int32, error) {
	if err := r.br.Seek(base); err != nil {
		return nil, err
	}

	table := make([]int32, 0, 8)
	skippedReserved := false
	for {
		w, err := r.br.ReadInt32()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading table at %d: %w", base, err)
		}

		if w == 0 {
			if mode == format.TableNonHierarchical && !skippedReserved {
				skippedReserved = true
				continue
			}

			return table, nil
		}
		table = append(table, w)
	}
}

// HierTable resolves the hierarchical root pointer and reads the full
// table of per-zoom-level record pointers.
func (r *Reader) HierTable() ([]int32, error) {
	base, err := r.br.ReadInt32At(r.headerOffset)
	if err != nil {
		return nil, fmt.Errorf("reading hierarchical root: %w", err)
	}

	return r.ReadTableAt(int64(base), format.TableHierarchical)
}

// NonhierTable resolves the non-hierarchical root pointer and reads the
// full table of record slot pointers.
func (r *Reader) NonhierTable() ([]int32, error) {
	base, err := r.br.ReadInt32At(r.nonhierRoot)
	if err != nil {
		return nil, fmt.Errorf("reading non-hierarchical root: %w", err)
	}

	return r.ReadTableAt(int64(base), format.TableNonHierarchical)
}

// HierRecord follows the page chain of one hierarchical record (one zoom
// level) and returns its tile records in page order.
//
// The chain starts at slot record of the hierarchical table: the slot
// pointer leads to a (zero, first page pointer) pair, then each page is a
// (entry count, next page pointer) header followed by the entries. A next
// pointer of zero marks the terminal page, and a first page pointer of
// zero before any entries means the level has no tiles, which is a valid
// empty result rather than an error. A next pointer leading back to a
// visited page fails with errs.ErrCorruptIndex.
func (r *Reader) HierRecord(record int) ([]TileRecord, error) {
	tableBase, err := r.br.ReadInt32At(r.headerOffset)
	if err != nil {
		return nil, fmt.Errorf("reading hierarchical root: %w", err)
	}

	slot := int64(tableBase) + int64(record)*format.WordSize
	listHead, err := r.br.ReadInt32At(slot)
	if err != nil {
		return nil, fmt.Errorf("hier record %d: reading slot pointer: %w", record, err)
	}

	if err := r.seekPage(int64(listHead)); err != nil {
		return nil, fmt.Errorf("hier record %d: list head: %w", record, err)
	}
	if err := r.br.ExpectInt32(0); err != nil {
		return nil, fmt.Errorf("hier record %d: list head prologue: %w", record, err)
	}
	page, err := r.br.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("hier record %d: first page pointer: %w", record, err)
	}

	var records []TileRecord
	seen := make(map[int32]bool)
	for page != 0 {
		// A next pointer leading back to a visited page would loop forever.
		if seen[page] {
			return nil, fmt.Errorf("%w: page chain cycle at offset %d in hier record %d",
				errs.ErrCorruptIndex, page, record)
		}
		seen[page] = true

		if err := r.seekPage(int64(page)); err != nil {
			return nil, fmt.Errorf("hier record %d: page pointer: %w", record, err)
		}

		entries, err := r.br.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("hier record %d: page entry count: %w", record, err)
		}
		page, err = r.br.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("hier record %d: next page pointer: %w", record, err)
		}

		if entries < 0 {
			return nil, fmt.Errorf("%w: negative entry count %d in hier record %d", errs.ErrCorruptIndex, entries, record)
		}
		need := int64(entries) * format.HierEntryWords * format.WordSize
		if need > r.br.Size()-r.br.Offset() {
			return nil, fmt.Errorf("%w: entry count %d in hier record %d reads past end of stream",
				errs.ErrCorruptIndex, entries, record)
		}

		for i := int32(0); i < entries; i++ {
			rec, err := r.readTileRecord()
			if err != nil {
				return nil, fmt.Errorf("hier record %d: entry %d: %w", record, i, err)
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

func (r *Reader) readTileRecord() (TileRecord, error) {
	var rec TileRecord
	var err error
	if rec.Tile, err = r.br.ReadInt32(); err != nil {
		return rec, err
	}
	if rec.Offset, err = r.br.ReadInt32(); err != nil {
		return rec, err
	}
	if rec.Length, err = r.br.ReadInt32(); err != nil {
		return rec, err
	}
	if rec.FileNo, err = r.br.ReadInt32(); err != nil {
		return rec, err
	}

	return rec, rec.validate()
}

// NonhierRecord resolves one non-hierarchical record slot to a blob
// location. The second return is false when the slot carries the reserved
// absent sentinel, a normal outcome meaning the section was intentionally
// left out of the slide.
func (r *Reader) NonhierRecord(record int) (BlobRecord, bool, error) {
	tableBase, err := r.br.ReadInt32At(r.nonhierRoot)
	if err != nil {
		return BlobRecord{}, false, fmt.Errorf("reading non-hierarchical root: %w", err)
	}

	// Slot zero of the table is the reserved zero word, so record n lives
	// one word further in.
	slot := int64(tableBase) + int64(record+1)*format.WordSize
	listHead, err := r.br.ReadInt32At(slot)
	if err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: reading slot pointer: %w", record, err)
	}

	if err := r.seekPage(int64(listHead)); err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: list head: %w", record, err)
	}
	pagesize, err := r.br.ReadInt32()
	if err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: page size word: %w", record, err)
	}
	if pagesize == format.AbsentSentinel {
		return BlobRecord{}, false, nil
	}
	// Single-page invariant for this table kind.
	if pagesize != 0 {
		return BlobRecord{}, false, fmt.Errorf("%w: nonhier record %d: page size word %d is neither zero nor the absent sentinel",
			errs.ErrCorruptIndex, record, pagesize)
	}

	page, err := r.br.ReadInt32()
	if err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: page pointer: %w", record, err)
	}
	if err := r.seekPage(int64(page)); err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: page pointer: %w", record, err)
	}

	// The prologue of the single page is exactly (1, 0, 0, 0).
	for _, want := range [4]int32{1, 0, 0, 0} {
		if err := r.br.ExpectInt32(want); err != nil {
			return BlobRecord{}, false, fmt.Errorf("nonhier record %d: page prologue: %w", record, err)
		}
	}

	var rec BlobRecord
	if rec.Offset, err = r.br.ReadInt32(); err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: %w", record, err)
	}
	if rec.Length, err = r.br.ReadInt32(); err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: %w", record, err)
	}
	if rec.FileNo, err = r.br.ReadInt32(); err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: %w", record, err)
	}
	if err := rec.validate(); err != nil {
		return BlobRecord{}, false, fmt.Errorf("nonhier record %d: %w", record, err)
	}

	return rec, true, nil
}

// seekPage validates and follows an in-stream pointer. A pointer outside
// the stream is a structural violation, so the seek error is escalated to
// errs.ErrCorruptIndex rather than surfacing as a plain invalid offset.
func (r *Reader) seekPage(off int64) error {
	if err := r.br.Seek(off); err != nil {
		if errors.Is(err, errs.ErrInvalidOffset) {
			return fmt.Errorf("%w: pointer %d outside stream of %d bytes", errs.ErrCorruptIndex, off, r.br.Size())
		}

		return err
	}

	return nil
}
