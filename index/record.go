package index

import (
	"fmt"

	"github.com/arloliu/mirax/errs"
)

// TileRecord locates the pixel data of one tile inside a companion data
// file. It is the in-memory form of one hierarchical page entry.
type TileRecord struct {
	// Tile is the flat tile index within the slide grid; it converts to
	// grid coordinates via (Tile mod tilesX, Tile div tilesX).
	Tile   int32
	Offset int32
	Length int32
	FileNo int32
}

// GridXY converts the flat tile index to 2-D grid coordinates.
func (r TileRecord) GridXY(tilesX int) (int32, int32) {
	return r.Tile % int32(tilesX), r.Tile / int32(tilesX)
}

// validate rejects records with negative fields. The format has no use
// for them and every observed occurrence was a mis-followed pointer.
func (r TileRecord) validate() error {
	if r.Tile < 0 || r.Offset < 0 || r.Length < 0 || r.FileNo < 0 {
		return fmt.Errorf("%w: negative field in tile record %+v", errs.ErrCorruptIndex, r)
	}

	return nil
}

// BlobRecord locates one auxiliary blob (an associated image or the tile
// position buffer) inside a companion data file. It is the in-memory form
// of one non-hierarchical record.
type BlobRecord struct {
	FileNo int32
	Offset int32
	Length int32
}

func (r BlobRecord) validate() error {
	if r.FileNo < 0 || r.Offset < 0 || r.Length < 0 {
		return fmt.Errorf("%w: negative field in blob record %+v", errs.ErrCorruptIndex, r)
	}

	return nil
}

// TilePosition is one decoded refinement from the tile position map: the
// camera-measured placement of the tile at grid position (GridX, GridY).
// X and Y are in pixels (the map stores 1/256-pixel fixed point); Flag is
// the camera index byte.
type TilePosition struct {
	GridX int
	GridY int
	X     float64
	Y     float64
	Flag  uint8
}
