package walk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/errs"
)

// wordStream encodes words as a headerless little-endian stream; tests
// pair it with WithHeaderOffset(0) so pointer values are word indices
// times four.
func wordStream(words ...int32) []byte {
	engine := endian.GetLittleEndianEngine()
	var buf []byte
	for _, w := range words {
		buf = engine.AppendUint32(buf, uint32(w))
	}

	return buf
}

func newTestWalker(t *testing.T, words ...int32) (*Walker, *CollectSink) {
	t.Helper()

	sink := &CollectSink{}
	w, err := NewWalker(bytes.NewReader(wordStream(words...)),
		WithHeaderOffset(0),
		WithSink(sink),
	)
	require.NoError(t, err)

	return w, sink
}

func TestNewWalker(t *testing.T) {
	t.Run("counts words past the header", func(t *testing.T) {
		data := append(make([]byte, 37), wordStream(1, 2, 3)...)
		w, err := NewWalker(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, int64(3), w.NumItems())
	})

	t.Run("misaligned stream", func(t *testing.T) {
		_, err := NewWalker(bytes.NewReader(make([]byte, 39)))
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("header offset past end", func(t *testing.T) {
		_, err := NewWalker(bytes.NewReader(make([]byte, 8)))
		require.ErrorIs(t, err, errs.ErrInvalidOffset)
	})

	t.Run("negative header offset", func(t *testing.T) {
		_, err := NewWalker(bytes.NewReader(make([]byte, 8)), WithHeaderOffset(-1))
		require.Error(t, err)
	})
}

func TestDump(t *testing.T) {
	w, sink := newTestWalker(t, 4, 0, 0, 0, 12, 999)
	require.NoError(t, w.Dump())

	require.Equal(t, []Event{
		{Kind: EventWord, Index: 0, Value: 4, Class: ClassPointer, Target: 1, Delta: 1},
		{Kind: EventZeroRun, Index: 1, Count: 3},
		{Kind: EventWord, Index: 4, Value: 12, Class: ClassPointer, Target: 3, Delta: -1},
		{Kind: EventWord, Index: 5, Value: 999, Class: ClassLiteral},
		{Kind: EventStatus, Index: 6, Message: "end of stream"},
	}, sink.Events)
}

func TestDump_TrailingZeroRun(t *testing.T) {
	w, sink := newTestWalker(t, 999, 0, 0)
	require.NoError(t, w.Dump())

	require.Equal(t, []Event{
		{Kind: EventWord, Index: 0, Value: 999, Class: ClassLiteral},
		{Kind: EventZeroRun, Index: 1, Count: 2},
		{Kind: EventStatus, Index: 3, Message: "end of stream"},
	}, sink.Events)
}

func TestTraverse_LiteralDeadEnd(t *testing.T) {
	// Word 0 points at the tuple marker; one tuple with a matching type
	// tag follows, then a group whose tag breaks the table. Its first
	// word is an unresolved literal, which ends the walk.
	w, sink := newTestWalker(t,
		8,   // 0: pointer to word 2
		999, // 1: never visited
		128, // 2: tuple marker
		10, 20, 30, 4, // 3..6: tuple, tag matches
		11, 21, 31, 5, // 7..10: tag differs, not a tuple
	)
	require.NoError(t, w.Traverse())

	require.Equal(t, []Event{
		{Kind: EventWord, Index: 0, Value: 8, Class: ClassPointer, Target: 2, Delta: 2},
		{Kind: EventWord, Index: 2, Value: 128, Class: ClassTupleMarker},
		{Kind: EventTuple, Index: 3, Tuple: [4]int32{10, 20, 30, 4}},
		{Kind: EventWord, Index: 7, Value: 11, Class: ClassLiteral},
		{Kind: EventStatus, Index: 7, Message: "graph exhausted: unresolved literal 11 at word 7"},
	}, sink.Events)
}

func TestTraverse_ZeroRunToEnd(t *testing.T) {
	w, sink := newTestWalker(t, 4, 0)
	require.NoError(t, w.Traverse())

	require.Equal(t, []Event{
		{Kind: EventWord, Index: 0, Value: 4, Class: ClassPointer, Target: 1, Delta: 1},
		{Kind: EventZeroRun, Index: 1, Count: 1},
		{Kind: EventStatus, Index: 2, Message: "graph exhausted: end of stream"},
	}, sink.Events)
}

func TestTraverse_RevisitStops(t *testing.T) {
	// Both words point at word 1; the second visit of word 1 ends the walk.
	w, sink := newTestWalker(t, 4, 4)
	require.NoError(t, w.Traverse())

	require.Equal(t, []Event{
		{Kind: EventWord, Index: 0, Value: 4, Class: ClassPointer, Target: 1, Delta: 1},
		{Kind: EventWord, Index: 1, Value: 4, Class: ClassPointer, Target: 1, Delta: 0},
		{Kind: EventStatus, Index: 1, Message: "graph exhausted: word 1 already visited"},
	}, sink.Events)
}

func TestTraverse_LeadingZeros(t *testing.T) {
	w, sink := newTestWalker(t, 0, 0, 999)
	require.NoError(t, w.Traverse())

	require.Equal(t, []Event{
		{Kind: EventZeroRun, Index: 0, Count: 2},
		{Kind: EventWord, Index: 2, Value: 999, Class: ClassLiteral},
		{Kind: EventStatus, Index: 2, Message: "graph exhausted: unresolved literal 999 at word 2"},
	}, sink.Events)
}

func TestTraverse_TruncatedTupleTable(t *testing.T) {
	// The marker sits too close to the end for a full 4-word group; the
	// table decodes as empty and the cursor lands past the final words.
	w, sink := newTestWalker(t, 128, 10, 20)
	require.NoError(t, w.Traverse())

	require.Equal(t, []Event{
		{Kind: EventWord, Index: 0, Value: 128, Class: ClassTupleMarker},
		{Kind: EventWord, Index: 1, Value: 10, Class: ClassLiteral},
		{Kind: EventStatus, Index: 1, Message: "graph exhausted: unresolved literal 10 at word 1"},
	}, sink.Events)
}
