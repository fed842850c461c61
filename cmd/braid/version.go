package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kweston/braid/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the build version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println("braid", version.String())
			return nil
		},
	}
}
