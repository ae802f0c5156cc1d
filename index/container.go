package index

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/mirax/errs"
	"github.com/arloliu/mirax/internal/hash"
	"github.com/arloliu/mirax/slidedat"
)

// mrxsExt is the extension of the slide entry file; the container proper
// is the directory next to it.
const mrxsExt = ".mrxs"

// Container ties one slide together: the Slidedat descriptor, the binary
// index file and the numbered companion data files.
//
// The index file stays open for the container's lifetime; companion data
// files are opened lazily, one at a time, only when a record references
// them, and closed again as soon as the referenced byte range has been
// read. Many records can share one rarely-referenced file, so keeping
// them all open would waste descriptors on large slides.
type Container struct {
	dir      string
	dat      *slidedat.Slidedat
	indexF   *os.File
	reader   *Reader
	dataSize map[int32]int64
}

// OpenContainer opens the slide at path (the .mrxs entry file).
func OpenContainer(path string) (*Container, error) {
	if !strings.HasSuffix(path, mrxsExt) {
		return nil, fmt.Errorf("%w: %s is not a MIRAX slide", errs.ErrFormatMismatch, path)
	}
	dir := strings.TrimSuffix(path, mrxsExt)

	dat, err := slidedat.Load(filepath.Join(dir, "Slidedat.ini"))
	if err != nil {
		return nil, err
	}

	return openContainerDir(dir, dat)
}

func openContainerDir(dir string, dat *slidedat.Slidedat) (*Container, error) {
	f, err := os.Open(filepath.Join(dir, dat.IndexFile))
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}

	reader, err := NewReader(f, dat.Version, dat.ID)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Container{
		dir:      dir,
		dat:      dat,
		indexF:   f,
		reader:   reader,
		dataSize: make(map[int32]int64),
	}, nil
}

// Close releases the index file handle.
func (c *Container) Close() error {
	return c.indexF.Close()
}

// Slidedat returns the parsed descriptor.
func (c *Container) Slidedat() *slidedat.Slidedat {
	return c.dat
}

// Reader returns the index reader.
func (c *Container) Reader() *Reader {
	return c.reader
}

// Levels returns the number of zoom levels declared by the descriptor.
func (c *Container) Levels() int {
	return len(c.dat.ZoomLevels)
}

// ReadLevel decodes the hierarchical record of one zoom level and
// validates every tile record against the container: the file number must
// name a declared companion file, the byte range must lie inside it, and
// the tile grid coordinates must be multiples of 1<<level (all observed
// slides use power-of-two level scaling, and there is no way to declare
// otherwise).
func (c *Container) ReadLevel(level int) ([]TileRecord, error) {
	layer, ok := c.dat.ZoomLayer()
	if !ok || level < 0 || level >= len(layer.Levels) {
		return nil, fmt.Errorf("%w: no zoom level %d", errs.ErrCorruptIndex, level)
	}

	records, err := c.reader.HierRecord(layer.Levels[level].Offset)
	if err != nil {
		return nil, fmt.Errorf("zoom level %d: %w", level, err)
	}

	for _, rec := range records {
		if err := c.checkRange(rec.FileNo, rec.Offset, rec.Length); err != nil {
			return nil, fmt.Errorf("zoom level %d, tile %d: %w", level, rec.Tile, err)
		}
		x, y := rec.GridXY(c.dat.TilesX)
		if x%(1<<level) != 0 || y%(1<<level) != 0 {
			return nil, fmt.Errorf("%w: tile at (%d,%d) is not aligned to zoom level %d",
				errs.ErrCorruptIndex, x, y, level)
		}
	}

	return records, nil
}

// AssociatedImage reads one associated image blob. kind is "macro",
// "label" or "thumbnail". The second return is false when the slide does
// not carry the image, either because the descriptor never declared the
// record or because the index marks it absent.
func (c *Container) AssociatedImage(kind string) ([]byte, bool, error) {
	slot, ok := c.dat.AssociatedImageRecord(kind)
	if !ok {
		return nil, false, nil
	}

	rec, present, err := c.reader.NonhierRecord(slot)
	if err != nil || !present {
		return nil, present, err
	}

	data, err := c.ReadBlob(rec)
	if err != nil {
		return nil, false, fmt.Errorf("%s image: %w", kind, err)
	}

	return data, true, nil
}

// TilePositions reads and decodes the tile position map. The second
// return is false when the slide has no position buffer.
func (c *Container) TilePositions() ([]TilePosition, bool, error) {
	slot, ok := c.dat.PositionBufferRecord()
	if !ok {
		return nil, false, nil
	}

	rec, present, err := c.reader.NonhierRecord(slot)
	if err != nil || !present {
		return nil, present, err
	}

	buf, err := c.ReadBlob(rec)
	if err != nil {
		return nil, false, fmt.Errorf("position buffer: %w", err)
	}
	raw, err := DecodePositionBuffer(buf)
	if err != nil {
		return nil, false, err
	}

	positions, err := DecodePositionMap(raw, c.dat.ImageDivisions, c.dat.TilesX)
	if err != nil {
		return nil, false, err
	}

	return positions, true, nil
}

// ReadBlob reads the byte range of one non-hierarchical record from its
// companion data file. The file is opened for this read and closed again
// before returning.
func (c *Container) ReadBlob(rec BlobRecord) ([]byte, error) {
	return c.readRange(rec.FileNo, rec.Offset, rec.Length)
}

// ReadTile reads the pixel data bytes of one tile record. The companion
// file is opened for this read and closed again before returning.
func (c *Container) ReadTile(rec TileRecord) ([]byte, error) {
	return c.readRange(rec.FileNo, rec.Offset, rec.Length)
}

func (c *Container) readRange(fileno, offset, length int32) ([]byte, error) {
	if err := c.checkRange(fileno, offset, length); err != nil {
		return nil, err
	}

	f, err := os.Open(c.datafilePath(fileno))
	if err != nil {
		return nil, fmt.Errorf("opening data file %d: %w", fileno, err)
	}
	defer f.Close()

	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: data file %d shorter than record range %d+%d",
				errs.ErrTruncatedRead, fileno, offset, length)
		}

		return nil, fmt.Errorf("reading data file %d: %w", fileno, err)
	}

	return buf, nil
}

// checkRange enforces the container invariant: fileno must index a
// declared companion file and offset+length must not exceed its size.
func (c *Container) checkRange(fileno, offset, length int32) error {
	if fileno < 0 || int(fileno) >= len(c.dat.Datafiles) {
		return fmt.Errorf("%w: file number %d with %d data files declared",
			errs.ErrCorruptIndex, fileno, len(c.dat.Datafiles))
	}

	size, ok := c.dataSize[fileno]
	if !ok {
		fi, err := os.Stat(c.datafilePath(fileno))
		if err != nil {
			return fmt.Errorf("stat data file %d: %w", fileno, err)
		}
		size = fi.Size()
		c.dataSize[fileno] = size
	}

	if int64(offset)+int64(length) > size {
		return fmt.Errorf("%w: range %d+%d exceeds data file %d size %d",
			errs.ErrCorruptIndex, offset, length, fileno, size)
	}

	return nil
}

func (c *Container) datafilePath(fileno int32) string {
	return filepath.Join(c.dir, c.dat.Datafiles[fileno])
}

// Fingerprint computes the xxHash64 of the raw index file bytes,
// identifying this capture of the slide.
func (c *Container) Fingerprint() (uint64, error) {
	f, err := os.Open(filepath.Join(c.dir, c.dat.IndexFile))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return hash.FingerprintReader(f)
}
