package walk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/arloliu/mirax/compress"
)

// TextSink renders events as the classic fixed-column diagnostic listing:
// word index, raw value, and for pointer candidates the target index and
// signed distance. Zero runs collapse to a single ellipsis line so dumps
// of sparse tables stay readable.
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a text sink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Emit writes one event as a listing line.
func (s *TextSink) Emit(ev Event) error {
	var err error
	switch ev.Kind {
	case EventWord:
		switch ev.Class {
		case ClassPointer:
			_, err = fmt.Fprintf(s.w, "%7d %11d %10d    -> %+10d\n", ev.Index, ev.Value, ev.Target, ev.Delta)
		case ClassTupleMarker:
			_, err = fmt.Fprintf(s.w, "%7d %11d  tuple table\n", ev.Index, ev.Value)
		default:
			_, err = fmt.Fprintf(s.w, "%7d %11d\n", ev.Index, ev.Value)
		}
	case EventZeroRun:
		_, err = fmt.Fprintf(s.w, "%7s %11s %10s %30d\n", ".", ".", ".", ev.Count)
	case EventTuple:
		_, err = fmt.Fprintf(s.w, "%7d   (%d, %d, %d, %d)\n", ev.Index, ev.Tuple[0], ev.Tuple[1], ev.Tuple[2], ev.Tuple[3])
	case EventStatus:
		_, err = fmt.Fprintf(s.w, "# %s\n", ev.Message)
	}

	return err
}

// JSONSink renders events as JSON lines for machine consumption.
type JSONSink struct {
	enc *json.Encoder
}

// NewJSONSink creates a JSON-lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

// Emit writes one event as a JSON line.
func (s *JSONSink) Emit(ev Event) error {
	return s.enc.Encode(ev)
}

// CompressedSink buffers the rendered output of an inner sink and writes
// it through a codec when closed. Dumps over large slides run to hundreds
// of megabytes of text; compressing the archive keeps recovery sessions
// manageable.
type CompressedSink struct {
	buf   bytes.Buffer
	inner Sink
	codec compress.Codec
	out   io.Writer
}

// NewCompressedTextSink creates a sink that renders text into memory and
// writes the compressed result to out on Close.
func NewCompressedTextSink(out io.Writer, codec compress.Codec) *CompressedSink {
	s := &CompressedSink{codec: codec, out: out}
	s.inner = NewTextSink(&s.buf)

	return s
}

// NewCompressedJSONSink creates a sink that renders JSON lines into
// memory and writes the compressed result to out on Close.
func NewCompressedJSONSink(out io.Writer, codec compress.Codec) *CompressedSink {
	s := &CompressedSink{codec: codec, out: out}
	s.inner = NewJSONSink(&s.buf)

	return s
}

// Emit renders the event into the in-memory buffer.
func (s *CompressedSink) Emit(ev Event) error {
	return s.inner.Emit(ev)
}

// Close compresses the buffered output and writes it to the destination.
func (s *CompressedSink) Close() error {
	data, err := s.codec.Compress(s.buf.Bytes())
	if err != nil {
		return err
	}
	if _, err := s.out.Write(data); err != nil {
		return err
	}

	return nil
}
