package walk

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/mirax/binio"
	"github.com/arloliu/mirax/format"
	"github.com/arloliu/mirax/internal/options"
)

// DefaultHeaderOffset is the word stream start observed on every slide
// examined so far: a 5-byte version string followed by a 32-character
// slide identifier. Walkers accept any other offset for captures with a
// different preamble.
const DefaultHeaderOffset = 37

// WalkerOption configures a Walker.
type WalkerOption = options.Option[*Walker]

// WithHeaderOffset sets the byte offset where the word stream starts.
func WithHeaderOffset(off int64) WalkerOption {
	return options.New(func(w *Walker) error {
		if off < 0 {
			return fmt.Errorf("header offset must be non-negative, got %d", off)
		}
		w.headerOffset = off

		return nil
	})
}

// WithSink directs walk events to s instead of discarding them.
func WithSink(s Sink) WalkerOption {
	return options.NoError(func(w *Walker) {
		w.sink = s
	})
}

// Walker performs diagnostic traversals of a raw index word stream. It
// never mutates the stream and, unlike the index reader, never escalates
// a structural oddity to an error: everything it can classify is
// reported, everything it cannot is reported as such.
type Walker struct {
	br           *binio.Reader
	sink         Sink
	headerOffset int64
	numItems     int64
}

type discardSink struct{}

func (discardSink) Emit(Event) error { return nil }

// NewWalker wraps rs for heuristic walking. The stream shape is checked
// once: a byte count after the header offset that does not divide into
// words is corruption the heuristics cannot work around, and fails here.
func NewWalker(rs io.ReadSeeker, opts ...WalkerOption) (*Walker, error) {
	br, err := binio.NewReader(rs)
	if err != nil {
		return nil, err
	}

	w := &Walker{
		br:           br,
		sink:         discardSink{},
		headerOffset: DefaultHeaderOffset,
	}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	if err := binio.CheckWordStream(br.Size(), w.headerOffset); err != nil {
		return nil, err
	}
	w.numItems = binio.NumWords(br.Size(), w.headerOffset)

	return w, nil
}

// NumItems returns the number of words in the stream.
func (w *Walker) NumItems() int64 {
	return w.numItems
}

// Dump scans the stream linearly from the header offset, classifying
// every word in place. Runs of consecutive zero words are collapsed into
// a single zero-run event to keep output usable over large ranges.
func (w *Walker) Dump() error {
	if err := w.br.Seek(w.headerOffset); err != nil {
		return err
	}

	var zeroRun int64
	zeroStart := int64(0)
	for i := int64(0); ; i++ {
		v, err := w.br.ReadInt32()
		if errors.Is(err, io.EOF) {
			if zeroRun > 0 {
				if err := w.sink.Emit(Event{Kind: EventZeroRun, Index: zeroStart, Count: zeroRun}); err != nil {
					return err
				}
			}

			return w.sink.Emit(Event{Kind: EventStatus, Index: i, Message: "end of stream"})
		}
		if err != nil {
			return err
		}

		if v == 0 {
			if zeroRun == 0 {
				zeroStart = i
			}
			zeroRun++
			continue
		}
		if zeroRun > 0 {
			if err := w.sink.Emit(Event{Kind: EventZeroRun, Index: zeroStart, Count: zeroRun}); err != nil {
				return err
			}
			zeroRun = 0
		}

		class, target := Classify(v, w.headerOffset, w.numItems)
		ev := Event{Kind: EventWord, Index: i, Value: v, Class: class}
		if class == ClassPointer {
			ev.Target = target
			ev.Delta = target - i
		}
		if err := w.sink.Emit(ev); err != nil {
			return err
		}
	}
}

// Traverse chases the pointer graph from word zero. Null words are
// skipped (collapsed into zero-run events), tuple-marker tables are
// decoded as consecutive 4-word groups until a group's type tag differs
// from the expected value, pointer candidates are followed, and the
// first unresolved literal, revisited word, or end of stream terminates
// the walk with a "graph exhausted" status. A dead
// end is a finding, not a failure: Traverse returns an error only for
// real I/O problems.
func (w *Walker) Traverse() error {
	visited := make(map[int64]bool)
	cursor := int64(0)

	for {
		if cursor >= w.numItems {
			return w.sink.Emit(Event{Kind: EventStatus, Index: cursor, Message: "graph exhausted: end of stream"})
		}
		if visited[cursor] {
			msg := fmt.Sprintf("graph exhausted: word %d already visited", cursor)
			return w.sink.Emit(Event{Kind: EventStatus, Index: cursor, Message: msg})
		}
		visited[cursor] = true

		v, err := w.readWord(cursor)
		if err != nil {
			return err
		}

		class, target := Classify(v, w.headerOffset, w.numItems)
		switch class {
		case ClassNull:
			next, err := w.skipZeros(cursor)
			if err != nil {
				return err
			}
			cursor = next

		case ClassTupleMarker:
			if err := w.sink.Emit(Event{Kind: EventWord, Index: cursor, Value: v, Class: class}); err != nil {
				return err
			}
			next, err := w.decodeTuples(cursor + 1)
			if err != nil {
				return err
			}
			cursor = next

		case ClassPointer:
			ev := Event{Kind: EventWord, Index: cursor, Value: v, Class: class, Target: target, Delta: target - cursor}
			if err := w.sink.Emit(ev); err != nil {
				return err
			}
			cursor = target

		default:
			if err := w.sink.Emit(Event{Kind: EventWord, Index: cursor, Value: v, Class: class}); err != nil {
				return err
			}
			msg := fmt.Sprintf("graph exhausted: unresolved literal %d at word %d", v, cursor)

			return w.sink.Emit(Event{Kind: EventStatus, Index: cursor, Message: msg})
		}
	}
}

// skipZeros collapses the zero run starting at word index start and
// returns the index of the first word past it.
func (w *Walker) skipZeros(start int64) (int64, error) {
	i := start
	for i < w.numItems {
		v, err := w.readWord(i)
		if err != nil {
			return 0, err
		}
		if v != 0 {
			break
		}
		i++
	}

	if err := w.sink.Emit(Event{Kind: EventZeroRun, Index: start, Count: i - start}); err != nil {
		return 0, err
	}

	return i, nil
}

// decodeTuples reads consecutive 4-word groups starting at word index
// start, emitting one tuple event per group whose type tag matches. The
// first group with a different tag ends the table; the cursor is left on
// that group's first word so its words are classified normally. Whether
// the differing tag is a real terminator convention or an accident of
// the slides seen so far is unverified, so the walker mirrors the
// recovering tool exactly.
func (w *Walker) decodeTuples(start int64) (int64, error) {
	cursor := start
	for cursor+format.HierEntryWords <= w.numItems {
		var tuple [4]int32
		for j := range tuple {
			v, err := w.readWord(cursor + int64(j))
			if err != nil {
				return 0, err
			}
			tuple[j] = v
		}
		if tuple[3] != format.TupleTypeTag {
			break
		}

		if err := w.sink.Emit(Event{Kind: EventTuple, Index: cursor, Tuple: tuple}); err != nil {
			return 0, err
		}
		cursor += format.HierEntryWords
	}

	return cursor, nil
}

func (w *Walker) readWord(index int64) (int32, error) {
	return w.br.ReadInt32At(w.headerOffset + index*format.WordSize)
}
