package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/mirax"
)

func hashCmd() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "Print the content fingerprint of one or more slides",
		ArgsUsage: "<slide.mrxs> [...]",
		Action:    runHash,
	}
}

func runHash(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("expected at least one slide path")
	}

	for _, path := range cmd.Args().Slice() {
		if !strings.HasSuffix(path, ".mrxs") {
			return fmt.Errorf("%s: not a slide entry file", path)
		}

		c, err := mirax.OpenContainer(path)
		if err != nil {
			return err
		}

		fp, err := c.Fingerprint()
		c.Close()
		if err != nil {
			return err
		}

		fmt.Printf("%016x  %s\n", fp, path)
	}

	return nil
}
