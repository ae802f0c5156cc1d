package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/mirax"
	"github.com/arloliu/mirax/index"
)

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the structure of a slide: descriptor, index tables, tile counts",
		ArgsUsage: "<slide.mrxs>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "positions",
				Usage: "also list every tile position override",
			},
			&cli.BoolFlag{
				Name:  "tiles",
				Usage: "also list every tile record per zoom level",
			},
		},
		Action: runDump,
	}
}

func runDump(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one slide path, got %d", cmd.Args().Len())
	}

	c, err := mirax.OpenContainer(cmd.Args().First())
	if err != nil {
		return err
	}
	defer c.Close()

	d := c.Slidedat()
	rep := newReporter(os.Stdout)

	gen := rep.child("general")
	gen.kv("slide version", d.Version)
	gen.kv("slide id", d.ID)
	gen.kv("slide type", d.Type)
	gen.kv("tiles", fmt.Sprintf("%d x %d", d.TilesX, d.TilesY))
	gen.kv("camera divisions per side", d.ImageDivisions)
	gen.kv("index file", d.IndexFile)
	gen.kv("fingerprint", fmt.Sprintf("%016x", mustFingerprint(c)))
	rep.blank()

	df := rep.child("data files")
	for i, name := range d.Datafiles {
		df.kv(fmt.Sprintf("file %d", i), name)
	}
	rep.blank()

	zl := rep.child("zoom levels")
	for i, lvl := range d.ZoomLevels {
		sec := zl.section("level %d (%s)", i, lvl.Section)
		sec.kv("tile size", fmt.Sprintf("%d x %d", lvl.TileWidth, lvl.TileHeight))
		sec.kv("overlap", fmt.Sprintf("%g x %g", lvl.OverlapX, lvl.OverlapY))
		sec.kv("concat factor", lvl.ConcatFactor)
		sec.kv("image format", lvl.Format)
		sec.kv("background", fmt.Sprintf("#%06x", lvl.FillRGB))

		recs, err := c.ReadLevel(i)
		if err != nil {
			return err
		}
		sec.kv("tile records", len(recs))
		if cmd.Bool("tiles") {
			for _, rec := range recs {
				gx, gy := rec.GridXY(d.TilesX)
				sec.line(fmt.Sprintf("tile %d at (%d, %d): file %d offset %d length %d",
					rec.Tile, gx, gy, rec.FileNo, rec.Offset, rec.Length))
			}
		}
	}
	rep.blank()

	assoc := rep.child("associated images")
	for _, kind := range []string{"macro", "label", "thumbnail"} {
		reportAssociated(assoc, c, kind)
	}
	rep.blank()

	pos, present, err := c.TilePositions()
	if err != nil {
		return err
	}
	pr := rep.child("tile positions")
	if !present {
		pr.line("no position buffer")
		return nil
	}
	pr.kv("overrides", len(pos))
	if cmd.Bool("positions") {
		for _, p := range pos {
			pr.line(fmt.Sprintf("tile (%d, %d) at (%g, %g) flag %d",
				p.GridX, p.GridY, p.X, p.Y, p.Flag))
		}
	}

	return nil
}

func reportAssociated(rep *reporter, c *index.Container, kind string) {
	slot, ok := c.Slidedat().AssociatedImageRecord(kind)
	if !ok {
		rep.kv(kind, "not in descriptor")
		return
	}

	rec, present, err := c.Reader().NonhierRecord(slot)
	switch {
	case err != nil:
		rep.kv(kind, fmt.Sprintf("error: %v", err))
	case !present:
		rep.kv(kind, "absent")
	default:
		rep.kv(kind, fmt.Sprintf("file %d offset %d length %d", rec.FileNo, rec.Offset, rec.Length))
	}
}

func mustFingerprint(c *index.Container) uint64 {
	fp, err := c.Fingerprint()
	if err != nil {
		return 0
	}
	return fp
}
