package index

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
)

const (
	testVersion = "01.02"
	testSlideID = "0123456789ABCDEF0123456789ABCDEF"
)

func buildIndex(t *testing.T, build func(*Builder), opts ...BuilderOption) []byte {
	t.Helper()

	b, err := NewBuilder(testVersion, testSlideID, opts...)
	require.NoError(t, err)
	build(b)

	data, err := b.Bytes()
	require.NoError(t, err)

	return data
}

func openIndex(t *testing.T, data []byte) *Reader {
	t.Helper()

	r, err := NewReader(bytes.NewReader(data), testVersion, testSlideID)
	require.NoError(t, err)

	return r
}

// rawStream builds a preamble followed by literal words, bypassing the
// builder's layout.
func rawStream(words ...int32) []byte {
	engine := endian.GetLittleEndianEngine()
	buf := append([]byte{}, testVersion...)
	buf = append(buf, testSlideID...)
	for _, w := range words {
		buf = engine.AppendUint32(buf, uint32(w))
	}

	return buf
}

func TestNewReader_Preamble(t *testing.T) {
	data := buildIndex(t, func(b *Builder) {})

	t.Run("matching preamble", func(t *testing.T) {
		r := openIndex(t, data)
		require.Equal(t, int64(len(testVersion)+len(testSlideID)), r.HeaderOffset())
	})

	t.Run("wrong version", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(data), "01.03", testSlideID)
		require.ErrorIs(t, err, errs.ErrFormatMismatch)
	})

	t.Run("wrong slide id", func(t *testing.T) {
		wrongID := "FFFF456789ABCDEF0123456789ABCDEF"
		_, err := NewReader(bytes.NewReader(data), testVersion, wrongID)
		require.ErrorIs(t, err, errs.ErrFormatMismatch)
	})

	t.Run("stream shorter than preamble", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(data[:10]), testVersion, testSlideID)
		require.ErrorIs(t, err, errs.ErrFormatMismatch)
	})

	t.Run("misaligned word stream", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(append(append([]byte{}, data...), 0xFF)), testVersion, testSlideID)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})
}

func TestReadTableAt(t *testing.T) {
	base := int64(len(testVersion) + len(testSlideID))

	tests := []struct {
		name  string
		words []int32
		mode  format.TableMode
		want  []int32
	}{
		{
			name:  "hierarchical stops at first zero",
			words: []int32{7, 3, 0, 1},
			mode:  format.TableHierarchical,
			want:  []int32{7, 3},
		},
		{
			name:  "non-hierarchical skips reserved zero",
			words: []int32{0, 5, 9, 0, 99},
			mode:  format.TableNonHierarchical,
			want:  []int32{5, 9},
		},
		{
			name:  "non-hierarchical skips only one zero",
			words: []int32{5, 0, 9, 0, 99},
			mode:  format.TableNonHierarchical,
			want:  []int32{5, 9},
		},
		{
			name:  "immediate terminator is an empty table",
			words: []int32{0, 7},
			mode:  format.TableHierarchical,
			want:  []int32{},
		},
		{
			name:  "end of stream ends the table",
			words: []int32{7, 3},
			mode:  format.TableHierarchical,
			want:  []int32{7, 3},
		},
		{
			name:  "order is preserved",
			words: []int32{9, 5, 7, 0},
			mode:  format.TableHierarchical,
			want:  []int32{9, 5, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openIndex(t, rawStream(tt.words...))
			got, err := r.ReadTableAt(base, tt.mode)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadTableAt_BadBase(t *testing.T) {
	r := openIndex(t, rawStream(1, 2, 0))

	_, err := r.ReadTableAt(-1, format.TableHierarchical)
	require.ErrorIs(t, err, errs.ErrInvalidOffset)

	_, err = r.ReadTableAt(r.Size()+4, format.TableHierarchical)
	require.ErrorIs(t, err, errs.ErrInvalidOffset)
}

func TestHierRecord_RoundTrip(t *testing.T) {
	level0 := []TileRecord{
		{Tile: 0, Offset: 0, Length: 1024, FileNo: 0},
		{Tile: 1, Offset: 1024, Length: 980, FileNo: 0},
		{Tile: 4, Offset: 2004, Length: 1101, FileNo: 1},
	}
	level1 := []TileRecord{
		{Tile: 0, Offset: 3105, Length: 500, FileNo: 1},
	}

	data := buildIndex(t, func(b *Builder) {
		b.AddLevel(level0)
		b.AddLevel(level1)
		b.AddLevel(nil) // empty level
	})
	r := openIndex(t, data)

	table, err := r.HierTable()
	require.NoError(t, err)
	require.Len(t, table, 3)

	got, err := r.HierRecord(0)
	require.NoError(t, err)
	require.Equal(t, level0, got)

	got, err = r.HierRecord(1)
	require.NoError(t, err)
	require.Equal(t, level1, got)

	got, err = r.HierRecord(2)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestHierRecord_PageChain(t *testing.T) {
	records := make([]TileRecord, 7)
	for i := range records {
		records[i] = TileRecord{
			Tile:   int32(i),
			Offset: int32(i * 1000),
			Length: 999,
			FileNo: 0,
		}
	}

	// Page size 2 forces a four-page chain; record order must survive it.
	data := buildIndex(t, func(b *Builder) {
		b.AddLevel(records)
	}, WithPageSize(2))

	got, err := openIndex(t, data).HierRecord(0)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestNonhierRecord(t *testing.T) {
	blob := BlobRecord{FileNo: 1, Offset: 4096, Length: 777}

	data := buildIndex(t, func(b *Builder) {
		b.AddAbsentRecord()
		b.AddNonhierRecord(blob)
	})
	r := openIndex(t, data)

	table, err := r.NonhierTable()
	require.NoError(t, err)
	require.Len(t, table, 2)

	_, present, err := r.NonhierRecord(0)
	require.NoError(t, err)
	require.False(t, present)

	got, present, err := r.NonhierRecord(1)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, blob, got)
}

func TestHierRecord_Corrupt(t *testing.T) {
	level := []TileRecord{{Tile: 0, Offset: 0, Length: 10, FileNo: 0}}
	engine := endian.GetLittleEndianEngine()

	// Locate the level's list head through the hierarchical table.
	pristine := buildIndex(t, func(b *Builder) { b.AddLevel(level) })
	table, err := openIndex(t, pristine).HierTable()
	require.NoError(t, err)
	listHead := int(table[0])

	patch := func(off int, v int32) []byte {
		data := append([]byte{}, pristine...)
		engine.PutUint32(data[off:], uint32(v))
		return data
	}

	t.Run("nonzero list head prologue", func(t *testing.T) {
		r := openIndex(t, patch(listHead, 1))
		_, err := r.HierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("negative entry count", func(t *testing.T) {
		page := int(engine.Uint32(pristine[listHead+4:]))
		r := openIndex(t, patch(page, -3))
		_, err := r.HierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("entry count past end of stream", func(t *testing.T) {
		page := int(engine.Uint32(pristine[listHead+4:]))
		r := openIndex(t, patch(page, 1<<24))
		_, err := r.HierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("negative record field", func(t *testing.T) {
		page := int(engine.Uint32(pristine[listHead+4:]))
		// Second entry word is the tile offset.
		r := openIndex(t, patch(page+3*format.WordSize, -5))
		_, err := r.HierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("page chain cycle", func(t *testing.T) {
		// Point the page's next pointer back at the page itself; the
		// decode must abort instead of walking the chain forever.
		page := int(engine.Uint32(pristine[listHead+4:]))
		r := openIndex(t, patch(page+format.WordSize, int32(page)))
		_, err := r.HierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("slot pointer out of range", func(t *testing.T) {
		r := openIndex(t, pristine)
		_, err := r.HierRecord(500)
		require.Error(t, err)
	})
}

func TestHierRecord_PageChainCycleAcrossPages(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	// Two single-entry pages; rewire the second page's next pointer back
	// to the first so the chain never reaches a terminal page.
	pristine := buildIndex(t, func(b *Builder) {
		b.AddLevel([]TileRecord{
			{Tile: 0, Offset: 0, Length: 10},
			{Tile: 1, Offset: 10, Length: 10},
		})
	}, WithPageSize(1))

	table, err := openIndex(t, pristine).HierTable()
	require.NoError(t, err)
	listHead := int(table[0])
	page0 := int(engine.Uint32(pristine[listHead+4:]))
	page1 := int(engine.Uint32(pristine[page0+4:]))

	data := append([]byte{}, pristine...)
	engine.PutUint32(data[page1+4:], uint32(page0))

	_, err = openIndex(t, data).HierRecord(0)
	require.ErrorIs(t, err, errs.ErrCorruptIndex)
}

func TestNonhierRecord_Corrupt(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	pristine := buildIndex(t, func(b *Builder) {
		b.AddNonhierRecord(BlobRecord{FileNo: 0, Offset: 1, Length: 2})
	})
	table, err := openIndex(t, pristine).NonhierTable()
	require.NoError(t, err)
	listHead := int(table[0])

	t.Run("unexpected page size word", func(t *testing.T) {
		data := append([]byte{}, pristine...)
		engine.PutUint32(data[listHead:], 7)
		_, _, err := openIndex(t, data).NonhierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("broken prologue", func(t *testing.T) {
		data := append([]byte{}, pristine...)
		// The word after the page pointer must be 1.
		page := int(engine.Uint32(pristine[listHead+format.WordSize:]))
		engine.PutUint32(data[page:], 2)
		_, _, err := openIndex(t, data).NonhierRecord(0)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})
}

func TestBuilder_Validation(t *testing.T) {
	t.Run("rejects negative tile record", func(t *testing.T) {
		b, err := NewBuilder(testVersion, testSlideID)
		require.NoError(t, err)
		b.AddLevel([]TileRecord{{Tile: -1}})

		_, err = b.Bytes()
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("rejects negative blob record", func(t *testing.T) {
		b, err := NewBuilder(testVersion, testSlideID)
		require.NoError(t, err)
		b.AddNonhierRecord(BlobRecord{Offset: -1})

		_, err = b.Bytes()
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("rejects non-positive page size", func(t *testing.T) {
		_, err := NewBuilder(testVersion, testSlideID, WithPageSize(0))
		require.Error(t, err)
	})
}

func TestGridXY(t *testing.T) {
	tests := []struct {
		tile   int32
		tilesX int
		wantX  int32
		wantY  int32
	}{
		{tile: 0, tilesX: 8, wantX: 0, wantY: 0},
		{tile: 7, tilesX: 8, wantX: 7, wantY: 0},
		{tile: 8, tilesX: 8, wantX: 0, wantY: 1},
		{tile: 27, tilesX: 8, wantX: 3, wantY: 3},
	}

	for _, tt := range tests {
		x, y := TileRecord{Tile: tt.tile}.GridXY(tt.tilesX)
		require.Equal(t, tt.wantX, x)
		require.Equal(t, tt.wantY, y)
	}
}
