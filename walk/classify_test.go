package walk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	const (
		headerOffset = 37
		numItems     = 10
	)

	tests := []struct {
		name       string
		v          int32
		wantClass  Class
		wantTarget int64
	}{
		{name: "zero is null", v: 0, wantClass: ClassNull},
		{name: "128 is the tuple marker", v: 128, wantClass: ClassTupleMarker},
		{name: "header offset itself is word zero", v: 37, wantClass: ClassPointer, wantTarget: 0},
		{name: "one word in", v: 41, wantClass: ClassPointer, wantTarget: 1},
		{name: "last word", v: 37 + 4*9, wantClass: ClassPointer, wantTarget: 9},
		{name: "one past the last word", v: 37 + 4*10, wantClass: ClassLiteral},
		{name: "not a word multiple", v: 38, wantClass: ClassLiteral},
		{name: "before the header", v: 33, wantClass: ClassLiteral},
		{name: "negative", v: -8, wantClass: ClassLiteral},
		{name: "plain data", v: 999, wantClass: ClassLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, target := Classify(tt.v, headerOffset, numItems)
			require.Equal(t, tt.wantClass, class)
			require.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestClassify_MarkerBeatsPointer(t *testing.T) {
	// With header offset zero, 128 is also a valid pointer value; the
	// marker classification takes precedence.
	class, _ := Classify(128, 0, 1000)
	require.Equal(t, ClassTupleMarker, class)
}

func TestClass_String(t *testing.T) {
	require.Equal(t, "null", ClassNull.String())
	require.Equal(t, "pointer", ClassPointer.String())
	require.Equal(t, "tuple-marker", ClassTupleMarker.String())
	require.Equal(t, "literal", ClassLiteral.String())
	require.Equal(t, "unknown", Class(0).String())
}

func TestEventKind_String(t *testing.T) {
	require.Equal(t, "word", EventWord.String())
	require.Equal(t, "zero-run", EventZeroRun.String())
	require.Equal(t, "tuple", EventTuple.String())
	require.Equal(t, "status", EventStatus.String())
	require.Equal(t, "unknown", EventKind(0).String())
}
