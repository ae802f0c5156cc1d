package walk

// EventKind discriminates the records a walk emits.
type EventKind uint8

const (
	// EventWord is one classified word.
	EventWord EventKind = iota + 1
	// EventZeroRun is a collapsed run of consecutive zero words.
	EventZeroRun
	// EventTuple is one decoded 4-word tuple from a tuple-marker table.
	EventTuple
	// EventStatus is a traversal status line ("graph exhausted",
	// "end of stream").
	EventStatus
)

func (k EventKind) String() string {
	switch k {
	case EventWord:
		return "word"
	case EventZeroRun:
		return "zero-run"
	case EventTuple:
		return "tuple"
	case EventStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Event is one record of a walk. Which fields are meaningful depends on
// Kind; unused fields are zero.
type Event struct {
	Kind EventKind `json:"kind"`

	// Index is the word index in the stream where the event occurred.
	Index int64 `json:"index"`

	// Value is the raw word (EventWord) or the tuple marker value.
	Value int32 `json:"value,omitempty"`

	// Class is the heuristic classification of an EventWord.
	Class Class `json:"class,omitempty"`

	// Target is the pointed-to word index for ClassPointer words, and
	// Delta its distance from Index (pointers in real indexes tend to
	// point nearby, so the delta is the interesting figure).
	Target int64 `json:"target,omitempty"`
	Delta  int64 `json:"delta,omitempty"`

	// Count is the length of an EventZeroRun.
	Count int64 `json:"count,omitempty"`

	// Tuple holds the four words of an EventTuple.
	Tuple [4]int32 `json:"tuple,omitempty"`

	// Message carries EventStatus text.
	Message string `json:"message,omitempty"`
}

// Sink receives walk events. Implementations decide how to render or
// store them; the walker never prints anything itself.
type Sink interface {
	Emit(Event) error
}

// CollectSink gathers events in memory, primarily for tests.
type CollectSink struct {
	Events []Event
}

// Emit appends the event.
func (s *CollectSink) Emit(ev Event) error {
	s.Events = append(s.Events, ev)

	return nil
}
