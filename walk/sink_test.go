package walk

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/mirax/compress"
)

func sampleEvents() []Event {
	return []Event{
		{Kind: EventWord, Index: 0, Value: 41, Class: ClassPointer, Target: 1, Delta: 1},
		{Kind: EventZeroRun, Index: 1, Count: 7},
		{Kind: EventWord, Index: 8, Value: 128, Class: ClassTupleMarker},
		{Kind: EventTuple, Index: 9, Tuple: [4]int32{10, 20, 30, 4}},
		{Kind: EventWord, Index: 13, Value: 999, Class: ClassLiteral},
		{Kind: EventStatus, Index: 13, Message: "graph exhausted: unresolved literal 999 at word 13"},
	}
}

func renderText(t *testing.T, events []Event) string {
	t.Helper()

	var buf bytes.Buffer
	sink := NewTextSink(&buf)
	for _, ev := range events {
		require.NoError(t, sink.Emit(ev))
	}

	return buf.String()
}

func TestTextSink(t *testing.T) {
	got := renderText(t, sampleEvents())

	want := "" +
		"      0          41          1    ->         +1\n" +
		"      .           .          .                              7\n" +
		"      8         128  tuple table\n" +
		"      9   (10, 20, 30, 4)\n" +
		"     13         999\n" +
		"# graph exhausted: unresolved literal 999 at word 13\n"
	require.Equal(t, want, got)
}

func TestJSONSink(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	for _, ev := range events {
		require.NoError(t, sink.Emit(ev))
	}

	scanner := bufio.NewScanner(&buf)
	var decoded []Event
	for scanner.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		decoded = append(decoded, ev)
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, events, decoded)
}

func TestCompressedSink(t *testing.T) {
	events := sampleEvents()
	codec := compress.NewZlibCodec()

	var out bytes.Buffer
	sink := NewCompressedTextSink(&out, codec)
	for _, ev := range events {
		require.NoError(t, sink.Emit(ev))
	}
	require.NoError(t, sink.Close())

	raw, err := codec.Decompress(out.Bytes())
	require.NoError(t, err)
	require.Equal(t, renderText(t, events), string(raw))
}

func TestCompressedJSONSink(t *testing.T) {
	codec := compress.NewS2Codec()

	var out bytes.Buffer
	sink := NewCompressedJSONSink(&out, codec)
	require.NoError(t, sink.Emit(Event{Kind: EventStatus, Message: "end of stream"}))
	require.NoError(t, sink.Close())

	raw, err := codec.Decompress(out.Bytes())
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	require.Equal(t, EventStatus, ev.Kind)
	require.Equal(t, "end of stream", ev.Message)
}
