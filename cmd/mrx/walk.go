package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/mirax/compress"
	"github.com/arloliu/mirax/format"
	"github.com/arloliu/mirax/walk"
)

func walkCmd() *cli.Command {
	return &cli.Command{
		Name:      "walk",
		Usage:     "Classify the words of a raw index file without a descriptor",
		ArgsUsage: "<Index.dat>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "header-offset",
				Usage: "byte offset where the word stream starts",
				Value: walk.DefaultHeaderOffset,
			},
			&cli.BoolFlag{
				Name:  "traverse",
				Usage: "follow pointer candidates instead of scanning linearly",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit one JSON event per line instead of text",
			},
			&cli.StringFlag{
				Name:  "compress",
				Usage: "compress the report with the named codec (zstd, s2, lz4, zlib)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the report to a file instead of stdout",
			},
		},
		Action: runWalk,
	}
}

func runWalk(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one index path, got %d", cmd.Args().Len())
	}

	f, err := os.Open(cmd.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	var out io.Writer = os.Stdout
	if path := cmd.String("output"); path != "" {
		of, err := os.Create(path)
		if err != nil {
			return err
		}
		defer of.Close()
		out = of
	}

	sink, closeSink, err := buildSink(out, cmd.Bool("json"), cmd.String("compress"))
	if err != nil {
		return err
	}

	walker, err := walk.NewWalker(f,
		walk.WithHeaderOffset(int64(cmd.Int("header-offset"))),
		walk.WithSink(sink),
	)
	if err != nil {
		return err
	}

	if cmd.Bool("traverse") {
		err = walker.Traverse()
	} else {
		err = walker.Dump()
	}
	if err != nil {
		return err
	}

	return closeSink()
}

func buildSink(out io.Writer, asJSON bool, codecName string) (walk.Sink, func() error, error) {
	noClose := func() error { return nil }

	if codecName == "" {
		if asJSON {
			return walk.NewJSONSink(out), noClose, nil
		}

		return walk.NewTextSink(out), noClose, nil
	}

	ct, ok := format.ParseCompressionType(codecName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown compression codec %q", codecName)
	}
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, nil, err
	}

	var sink *walk.CompressedSink
	if asJSON {
		sink = walk.NewCompressedJSONSink(out, codec)
	} else {
		sink = walk.NewCompressedTextSink(out, codec)
	}

	return sink, sink.Close, nil
}
