package index

import (
	"fmt"

	"github.com/arloliu/mirax/compress"
	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/format"
)

// DecodePositionBuffer undoes the optional zlib layer around a tile
// position buffer. Newer scanner revisions deflate the buffer; older ones
// store the raw entry table. The buffer is sniffed for a zlib header, so
// callers can pass either form.
func DecodePositionBuffer(data []byte) ([]byte, error) {
	if !compress.LooksLikeZlib(data) {
		return data, nil
	}

	codec := compress.NewZlibCodec()
	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: position buffer: %v", errs.ErrCorruptIndex, err)
	}

	return raw, nil
}

// DecodePositionMap decodes a raw tile position buffer into refinement
// records.
//
// The buffer is a packed table of 9-byte entries (uint8 flag, int32 x,
// int32 y in 1/256-pixel units), one per camera image in row-major order.
// Entry i refines the tile at coarse grid position
// ((i mod imagesX) * imageDivisions, (i div imagesX) * imageDivisions)
// where imagesX = tilesX / imageDivisions. An entry whose (x, y) pair is
// zero is the documented "no override" sentinel and produces no record.
//
// A buffer length that is not a multiple of the entry size fails with
// errs.ErrCorruptIndex, as does a tile grid width that does not divide
// evenly into camera images.
func DecodePositionMap(data []byte, imageDivisions, tilesX int) ([]TilePosition, error) {
	if len(data)%format.PositionEntrySize != 0 {
		return nil, fmt.Errorf("%w: position buffer length %d is not a multiple of %d",
			errs.ErrCorruptIndex, len(data), format.PositionEntrySize)
	}
	if imageDivisions <= 0 || tilesX <= 0 || tilesX < imageDivisions || tilesX%imageDivisions != 0 {
		return nil, fmt.Errorf("%w: image divisions %d with %d tiles across",
			errs.ErrCorruptIndex, imageDivisions, tilesX)
	}

	engine := endian.GetLittleEndianEngine()
	imagesX := tilesX / imageDivisions
	count := len(data) / format.PositionEntrySize

	positions := make([]TilePosition, 0, count)
	for i := 0; i < count; i++ {
		entry := data[i*format.PositionEntrySize:]
		flag := entry[0]
		x := int32(engine.Uint32(entry[1:5]))
		y := int32(engine.Uint32(entry[5:9]))
		if x == 0 && y == 0 {
			continue
		}

		positions = append(positions, TilePosition{
			GridX: (i % imagesX) * imageDivisions,
			GridY: (i / imagesX) * imageDivisions,
			X:     float64(x) / format.PositionScale,
			Y:     float64(y) / format.PositionScale,
			Flag:  flag,
		})
	}

	return positions, nil
}
