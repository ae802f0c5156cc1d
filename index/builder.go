package index

import (
	"fmt"

	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
	"github.com/arloliu/mirax/internal/options"
)

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*Builder]

// WithPageSize limits hierarchical pages to n entries each, forcing page
// chains. The default writes each level as a single page; tests use small
// page sizes to exercise chain traversal.
func WithPageSize(n int) BuilderOption {
	return options.New(func(b *Builder) error {
		if n <= 0 {
			return fmt.Errorf("page size must be positive, got %d", n)
		}
		b.pageSize = n

		return nil
	})
}

// Builder writes a synthetic index stream with the same layout the
// scanner produces: preamble, root pointers, both record tables, page
// chains and single-slot pages. It exists for round-trip tests and the
// synthetic container generator; real slides are never rewritten.
//
// Levels and non-hierarchical slots are emitted in the order they were
// added, which fixes their record numbers.
type Builder struct {
	version  string
	slideID  string
	engine   endian.EndianEngine
	pageSize int

	levels  [][]TileRecord
	nonhier []nonhierSlot
}

type nonhierSlot struct {
	rec     BlobRecord
	present bool
}

// NewBuilder creates a Builder for an index with the given preamble.
func NewBuilder(version, slideID string, opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		version: version,
		slideID: slideID,
		engine:  endian.GetLittleEndianEngine(),
	}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

// AddLevel appends one zoom level worth of tile records. An empty slice
// is valid and produces a level with a zero first-page pointer.
func (b *Builder) AddLevel(records []TileRecord) {
	b.levels = append(b.levels, records)
}

// AddNonhierRecord appends one present non-hierarchical slot.
func (b *Builder) AddNonhierRecord(rec BlobRecord) {
	b.nonhier = append(b.nonhier, nonhierSlot{rec: rec, present: true})
}

// AddAbsentRecord appends one non-hierarchical slot carrying the absent
// sentinel.
func (b *Builder) AddAbsentRecord() {
	b.nonhier = append(b.nonhier, nonhierSlot{})
}

// Bytes serializes the index stream.
func (b *Builder) Bytes() ([]byte, error) {
	for li, level := range b.levels {
		for _, rec := range level {
			if err := rec.validate(); err != nil {
				return nil, fmt.Errorf("level %d: %w", li, err)
			}
		}
	}
	for si, slot := range b.nonhier {
		if slot.present {
			if err := slot.rec.validate(); err != nil {
				return nil, fmt.Errorf("nonhier slot %d: %w", si, err)
			}
		}
	}

	headerOffset := len(b.version) + len(b.slideID)

	// Fixed-order layout: roots, hier table, nonhier table, one list
	// head + page chain per level, one list head (+ page) per slot.
	// Every block offset is known before writing, so emission is a
	// single append pass with position checks.
	hierTable := headerOffset + 2*format.WordSize
	nonhierTable := hierTable + (len(b.levels)+1)*format.WordSize
	cursor := nonhierTable + (len(b.nonhier)+2)*format.WordSize

	levelHeads := make([]int, len(b.levels))
	for i, level := range b.levels {
		levelHeads[i] = cursor
		cursor += 2 * format.WordSize // list head pair
		for _, page := range b.paginate(level) {
			cursor += (format.HierPageHeaderWords + len(page)*format.HierEntryWords) * format.WordSize
		}
	}

	slotHeads := make([]int, len(b.nonhier))
	for i, slot := range b.nonhier {
		slotHeads[i] = cursor
		if slot.present {
			cursor += 2 * format.WordSize // page size word + page pointer
			cursor += 7 * format.WordSize // (1,0,0,0) prologue + triple
		} else {
			cursor += format.WordSize // absent sentinel only
		}
	}

	buf := make([]byte, 0, cursor)
	buf = append(buf, b.version...)
	buf = append(buf, b.slideID...)
	buf = b.word(buf, int32(hierTable))
	buf = b.word(buf, int32(nonhierTable))

	for _, head := range levelHeads {
		buf = b.word(buf, int32(head))
	}
	buf = b.word(buf, 0)

	buf = b.word(buf, 0) // reserved slot
	for _, head := range slotHeads {
		buf = b.word(buf, int32(head))
	}
	buf = b.word(buf, 0)

	for i, level := range b.levels {
		if len(buf) != levelHeads[i] {
			return nil, fmt.Errorf("%w: level %d emitted at %d, expected %d", errs.ErrCorruptIndex, i, len(buf), levelHeads[i])
		}
		buf = b.emitLevel(buf, level)
	}

	for i, slot := range b.nonhier {
		if len(buf) != slotHeads[i] {
			return nil, fmt.Errorf("%w: slot %d emitted at %d, expected %d", errs.ErrCorruptIndex, i, len(buf), slotHeads[i])
		}
		buf = b.emitSlot(buf, slot)
	}

	return buf, nil
}

func (b *Builder) emitLevel(buf []byte, level []TileRecord) []byte {
	pages := b.paginate(level)

	buf = b.word(buf, 0) // list head prologue
	if len(pages) == 0 {
		return b.word(buf, 0) // zero tiles on this level
	}
	buf = b.word(buf, int32(len(buf)+format.WordSize)) // first page follows the head

	for pi, page := range pages {
		buf = b.word(buf, int32(len(page)))
		if pi == len(pages)-1 {
			buf = b.word(buf, 0)
		} else {
			next := len(buf) + format.WordSize + (len(page)*format.HierEntryWords)*format.WordSize
			buf = b.word(buf, int32(next))
		}
		for _, rec := range page {
			buf = b.word(buf, rec.Tile)
			buf = b.word(buf, rec.Offset)
			buf = b.word(buf, rec.Length)
			buf = b.word(buf, rec.FileNo)
		}
	}

	return buf
}

func (b *Builder) emitSlot(buf []byte, slot nonhierSlot) []byte {
	if !slot.present {
		return b.word(buf, format.AbsentSentinel)
	}

	buf = b.word(buf, 0)                               // page size word
	buf = b.word(buf, int32(len(buf)+format.WordSize)) // page follows immediately
	buf = b.word(buf, 1)
	buf = b.word(buf, 0)
	buf = b.word(buf, 0)
	buf = b.word(buf, 0)
	buf = b.word(buf, slot.rec.Offset)
	buf = b.word(buf, slot.rec.Length)
	buf = b.word(buf, slot.rec.FileNo)

	return buf
}

func (b *Builder) paginate(level []TileRecord) [][]TileRecord {
	if len(level) == 0 {
		return nil
	}
	size := b.pageSize
	if size == 0 {
		size = len(level)
	}

	pages := make([][]TileRecord, 0, (len(level)+size-1)/size)
	for start := 0; start < len(level); start += size {
		end := min(start+size, len(level))
		pages = append(pages, level[start:end])
	}

	return pages
}

func (b *Builder) word(buf []byte, v int32) []byte {
	return b.engine.AppendUint32(buf, uint32(v))
}
