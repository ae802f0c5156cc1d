package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()

	buf := engine.AppendUint32(nil, 0x12345678)
	require.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, buf)
	require.Equal(t, uint32(0x12345678), engine.Uint32(buf))
}

func TestBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()

	buf := engine.AppendUint32(nil, 0x12345678)
	require.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, buf)
	require.Equal(t, uint32(0x12345678), engine.Uint32(buf))
}

func TestEnginesAreSingletons(t *testing.T) {
	require.Equal(t, GetLittleEndianEngine(), GetLittleEndianEngine())
	require.NotEqual(t, GetLittleEndianEngine(), GetBigEndianEngine())
}
