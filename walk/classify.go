// Package walk implements the pointer-heuristic validator: a diagnostic
// traversal of the raw index word stream that needs no descriptor.
//
// Each word is classified heuristically as a null marker, a tuple-table
// marker, a plausible self-relative pointer, or an unresolved literal.
// The classification is inherently ambiguous (a literal can happen to
// look like a pointer), which is acceptable for its purpose: reverse
// engineering the format and triaging corrupt captures. Unclassifiable
// words are reported, never fatal; a walk that hits a dead end finishes
// with a "graph exhausted" status instead of an error.
//
// Output goes through a structured event sink the caller redirects to a
// terminal report, JSON lines, a compressed archive, or test assertions.
package walk

import "github.com/arloliu/mirax/format"

// Class is the heuristic classification of one index word.
type Class uint8

const (
	// ClassNull is a zero word, a placeholder or terminator.
	ClassNull Class = iota + 1
	// ClassPointer is a plausible self-relative pointer: the value minus
	// the header offset, divided by the word size, is an exact integer
	// inside the item range.
	ClassPointer
	// ClassTupleMarker is the empirically discovered literal announcing a
	// table of 4-word tuples (see format.TupleMarker).
	ClassTupleMarker
	// ClassLiteral is anything else: a count, a sentinel or plain data.
	ClassLiteral
)

func (c Class) String() string {
	switch c {
	case ClassNull:
		return "null"
	case ClassPointer:
		return "pointer"
	case ClassTupleMarker:
		return "tuple-marker"
	case ClassLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Classify classifies word v against a stream of numItems words starting
// at headerOffset. For ClassPointer the second return is the target word
// index; it is zero for every other class.
//
// The divisibility-and-range test is deliberately exactly the one that
// recovered the format from real slides: (v - headerOffset) must be a
// non-negative multiple of the word size and the quotient must be less
// than numItems. Values just outside either bound are literals.
func Classify(v int32, headerOffset, numItems int64) (Class, int64) {
	if v == 0 {
		return ClassNull, 0
	}
	if v == format.TupleMarker {
		return ClassTupleMarker, 0
	}

	rebased := int64(v) - headerOffset
	if rebased >= 0 && rebased%format.WordSize == 0 {
		if q := rebased / format.WordSize; q < numItems {
			return ClassPointer, q
		}
	}

	return ClassLiteral, 0
}
