package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/mirax"
	"github.com/arloliu/mirax/index"
)

func splitCmd() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "Extract tile and associated image payloads into individual files",
		ArgsUsage: "<slide.mrxs>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output directory",
				Value:   ".",
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "extract only this zoom level (-1 = all)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "images",
				Usage: "also extract the associated images",
			},
		},
		Action: runSplit,
	}
}

func runSplit(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one slide path, got %d", cmd.Args().Len())
	}

	c, err := mirax.OpenContainer(cmd.Args().First())
	if err != nil {
		return err
	}
	defer c.Close()

	outDir := cmd.String("out")
	only := int(cmd.Int("level"))

	for level := 0; level < c.Levels(); level++ {
		if only >= 0 && level != only {
			continue
		}
		if err := splitLevel(c, level, outDir); err != nil {
			return err
		}
	}

	if cmd.Bool("images") {
		for _, kind := range []string{"macro", "label", "thumbnail"} {
			if err := splitAssociated(c, kind, outDir); err != nil {
				return err
			}
		}
	}

	return nil
}

func splitLevel(c *index.Container, level int, outDir string) error {
	records, err := c.ReadLevel(level)
	if err != nil {
		return err
	}

	dir := filepath.Join(outDir, fmt.Sprintf("level_%02d", level))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	ext := imageExt(c.Slidedat().ZoomLevels[level].Format)
	for _, rec := range records {
		data, err := c.ReadTile(rec)
		if err != nil {
			return fmt.Errorf("level %d tile %d: %w", level, rec.Tile, err)
		}

		name := fmt.Sprintf("tile_%010d%s", rec.Tile, ext)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}

	fmt.Printf("level %d: %d tiles -> %s\n", level, len(records), dir)

	return nil
}

func splitAssociated(c *index.Container, kind, outDir string) error {
	data, present, err := c.AssociatedImage(kind)
	if err != nil {
		return fmt.Errorf("%s image: %w", kind, err)
	}
	if !present {
		return nil
	}

	path := filepath.Join(outDir, kind+".jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("%s image: %d bytes -> %s\n", kind, len(data), path)

	return nil
}

// imageExt maps a descriptor image format name to a file extension.
func imageExt(name string) string {
	switch strings.ToUpper(name) {
	case "JPEG":
		return ".jpg"
	case "PNG":
		return ".png"
	case "BMP24":
		return ".bmp"
	default:
		return ".bin"
	}
}
