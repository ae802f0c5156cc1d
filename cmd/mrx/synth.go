package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/mirax/compress"
	"github.com/arloliu/mirax/endian"
	"github.com/arloliu/mirax/format"
	"github.com/arloliu/mirax/index"
	"github.com/arloliu/mirax/internal/hash"
	"github.com/arloliu/mirax/slidedat"
)

func synthCmd() *cli.Command {
	return &cli.Command{
		Name:  "synth",
		Usage: "Generate a synthetic slide container for testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "directory to create the slide in",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "slide name (directory and .mrxs file stem)",
				Value: "synthetic",
			},
			&cli.IntFlag{
				Name:  "tiles",
				Usage: "tile grid side length",
				Value: 8,
			},
			&cli.IntFlag{
				Name:  "levels",
				Usage: "number of zoom levels",
				Value: 3,
			},
		},
		Action: runSynth,
	}
}

func runSynth(ctx context.Context, cmd *cli.Command) error {
	tiles := int(cmd.Int("tiles"))
	levels := int(cmd.Int("levels"))
	if tiles < 1 || levels < 1 || tiles < 1<<(levels-1) {
		return fmt.Errorf("grid of %d tiles cannot carry %d zoom levels", tiles, levels)
	}

	name := cmd.String("name")
	dir := filepath.Join(cmd.String("out"), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	slide, err := generateSlide(name, tiles, levels)
	if err != nil {
		return err
	}

	if err := slide.dat.WriteFile(filepath.Join(dir, "Slidedat.ini")); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, slide.dat.IndexFile), slide.index, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, slide.dat.Datafiles[0]), slide.data, 0o644); err != nil {
		return err
	}
	// The entry file of a real slide is a preview image; the thumbnail
	// payload stands in for it.
	entry := filepath.Join(cmd.String("out"), name+".mrxs")
	if err := os.WriteFile(entry, slide.thumbnail, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d zoom levels, %dx%d tile grid\n", entry, levels, tiles, tiles)

	return nil
}

type synthSlide struct {
	dat       *slidedat.Slidedat
	index     []byte
	data      []byte
	thumbnail []byte
}

// generateSlide assembles a descriptor, a companion data file and an
// index that cross-reference each other. Level n holds the tiles whose
// grid coordinates are multiples of 1<<n, matching the concat factor the
// descriptor declares for it.
func generateSlide(name string, tiles, levels int) (*synthSlide, error) {
	const tileSize = 256

	version := "01.02"
	slideID := fmt.Sprintf("%016X%016X", hash.ID(name), hash.ID(name+".id"))

	var data bytes.Buffer
	appendBlob := func(payload []byte) index.BlobRecord {
		rec := index.BlobRecord{
			FileNo: 0,
			Offset: int32(data.Len()),
			Length: int32(len(payload)),
		}
		data.Write(payload)

		return rec
	}

	builder, err := index.NewBuilder(version, slideID)
	if err != nil {
		return nil, err
	}

	for level := 0; level < levels; level++ {
		step := 1 << level
		var records []index.TileRecord
		for gy := 0; gy < tiles; gy += step {
			for gx := 0; gx < tiles; gx += step {
				payload := fakeJPEG(level, gy*tiles+gx)
				blob := appendBlob(payload)
				records = append(records, index.TileRecord{
					Tile:   int32(gy*tiles + gx),
					Offset: blob.Offset,
					Length: blob.Length,
					FileNo: blob.FileNo,
				})
			}
		}
		builder.AddLevel(records)
	}

	// Non-hierarchical slots in descriptor declaration order: macro,
	// label, thumbnail, then the position buffer.
	builder.AddAbsentRecord()
	builder.AddAbsentRecord()
	thumbnail := fakeJPEG(levels, 0)
	builder.AddNonhierRecord(appendBlob(thumbnail))

	positions, err := compress.NewZlibCodec().Compress(positionBuffer(tiles, tileSize))
	if err != nil {
		return nil, err
	}
	builder.AddNonhierRecord(appendBlob(positions))

	indexBytes, err := builder.Bytes()
	if err != nil {
		return nil, err
	}

	return &synthSlide{
		dat:       synthDescriptor(version, slideID, tiles, levels, tileSize),
		index:     indexBytes,
		data:      data.Bytes(),
		thumbnail: thumbnail,
	}, nil
}

func synthDescriptor(version, slideID string, tiles, levels, tileSize int) *slidedat.Slidedat {
	d := &slidedat.Slidedat{
		Version:         version,
		ID:              slideID,
		Type:            "SLIDE_TYPE_PROCESSED",
		TilesX:          tiles,
		TilesY:          tiles,
		ImageDivisions:  1,
		IndexFile:       "Index.dat",
		Datafiles:       []string{fmt.Sprintf(format.DataFilePattern, 0)},
		PositionVersion: 2,
	}

	zoom := slidedat.Layer{Name: slidedat.LayerSlideZoom}
	for level := 0; level < levels; level++ {
		section := fmt.Sprintf("LAYER_0_LEVEL_%d_SECTION", level)
		zoom.Levels = append(zoom.Levels, slidedat.Level{
			Name:    fmt.Sprintf("ZoomLevel_%d", level),
			Section: section,
			Offset:  level,
		})
		d.ZoomLevels = append(d.ZoomLevels, slidedat.ZoomLevel{
			Section:      section,
			ConcatFactor: 1 << level,
			TileWidth:    tileSize,
			TileHeight:   tileSize,
			Format:       "JPEG",
			FillRGB:      0xFFFFFF,
		})
	}
	d.Hier = slidedat.Tree{Layers: []slidedat.Layer{zoom}}

	d.Nonhier = slidedat.Tree{Layers: []slidedat.Layer{
		{
			Name: slidedat.LayerScanData,
			Levels: []slidedat.Level{
				{Name: slidedat.LevelMacro, Section: "NONHIER_0_LEVEL_0_SECTION", Offset: 0},
				{Name: slidedat.LevelLabel, Section: "NONHIER_0_LEVEL_1_SECTION", Offset: 1},
				{Name: slidedat.LevelThumbnail, Section: "NONHIER_0_LEVEL_2_SECTION", Offset: 2},
			},
		},
		{
			Name:    slidedat.LayerPositionBuffer,
			Section: "NONHIER_1_SECTION",
			Levels: []slidedat.Level{
				{Name: slidedat.LevelDefault, Section: "NONHIER_1_LEVEL_0_SECTION", Offset: 3},
			},
		},
	}}

	return d
}

// positionBuffer fabricates one camera placement entry per tile. The
// first entry stays at the origin and therefore encodes as the no-override
// sentinel.
func positionBuffer(tiles, tileSize int) []byte {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, tiles*tiles*format.PositionEntrySize)
	for gy := 0; gy < tiles; gy++ {
		for gx := 0; gx < tiles; gx++ {
			x := int32(gx * tileSize * 256)
			y := int32(gy * tileSize * 256)
			buf = append(buf, 1)
			buf = engine.AppendUint32(buf, uint32(x))
			buf = engine.AppendUint32(buf, uint32(y))
		}
	}

	return buf
}

// fakeJPEG builds a syntactically plausible tile payload: JPEG markers
// around deterministic filler bytes. Enough for extraction tools that
// never decode pixels.
func fakeJPEG(level, tile int) []byte {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	for i := 0; i < 24; i++ {
		payload = append(payload, byte(level*31+tile+i))
	}

	return append(payload, 0xFF, 0xD9)
}
