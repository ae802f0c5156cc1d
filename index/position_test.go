package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mirax/compress"
	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/errs"
)

func positionEntry(flag uint8, x, y int32) []byte {
	engine := endian.GetLittleEndianEngine()
	buf := []byte{flag}
	buf = engine.AppendUint32(buf, uint32(x))

	return engine.AppendUint32(buf, uint32(y))
}

func TestDecodePositionMap(t *testing.T) {
	data := append(positionEntry(0, 0, 0), positionEntry(3, 256, -512)...)

	positions, err := DecodePositionMap(data, 1, 4)
	require.NoError(t, err)

	// The zero entry is the no-override sentinel and produces nothing;
	// entry 1 decodes from 1/256-pixel units.
	require.Len(t, positions, 1)
	require.Equal(t, TilePosition{
		GridX: 1,
		GridY: 0,
		X:     1.0,
		Y:     -2.0,
		Flag:  3,
	}, positions[0])
}

func TestDecodePositionMap_CameraDivisions(t *testing.T) {
	// 4 tiles across with 2 divisions per side: 2 camera images per row,
	// each covering a 2x2 tile block.
	var data []byte
	for i := 0; i < 4; i++ {
		data = append(data, positionEntry(1, int32((i+1)*256), 256)...)
	}

	positions, err := DecodePositionMap(data, 2, 4)
	require.NoError(t, err)
	require.Len(t, positions, 4)

	require.Equal(t, 0, positions[0].GridX)
	require.Equal(t, 0, positions[0].GridY)
	require.Equal(t, 2, positions[1].GridX)
	require.Equal(t, 0, positions[1].GridY)
	require.Equal(t, 0, positions[2].GridX)
	require.Equal(t, 2, positions[2].GridY)
	require.Equal(t, 2, positions[3].GridX)
	require.Equal(t, 2, positions[3].GridY)
}

func TestDecodePositionMap_Errors(t *testing.T) {
	t.Run("length not a multiple of the entry size", func(t *testing.T) {
		_, err := DecodePositionMap(make([]byte, 10), 1, 4)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("divisions exceed grid", func(t *testing.T) {
		_, err := DecodePositionMap(positionEntry(1, 1, 1), 2, 1)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("divisions do not divide the grid", func(t *testing.T) {
		_, err := DecodePositionMap(positionEntry(1, 1, 1), 2, 5)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})

	t.Run("non-positive divisions", func(t *testing.T) {
		_, err := DecodePositionMap(positionEntry(1, 1, 1), 0, 4)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})
}

func TestDecodePositionBuffer(t *testing.T) {
	raw := append(positionEntry(1, 256, 256), positionEntry(1, 512, 512)...)

	t.Run("raw buffer passes through", func(t *testing.T) {
		got, err := DecodePositionBuffer(raw)
		require.NoError(t, err)
		require.Equal(t, raw, got)
	})

	t.Run("zlib buffer is inflated", func(t *testing.T) {
		compressed, err := compress.NewZlibCodec().Compress(raw)
		require.NoError(t, err)

		got, err := DecodePositionBuffer(compressed)
		require.NoError(t, err)
		require.Equal(t, raw, got)
	})

	t.Run("corrupt zlib stream", func(t *testing.T) {
		compressed, err := compress.NewZlibCodec().Compress(raw)
		require.NoError(t, err)
		compressed[len(compressed)-1] ^= 0xFF

		_, err = DecodePositionBuffer(compressed)
		require.ErrorIs(t, err, errs.ErrCorruptIndex)
	})
}
