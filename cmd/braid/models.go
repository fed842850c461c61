package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/kweston/braid/internal/model"
)

func modelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List the known model configurations",
		Action: func(ctx context.Context, c *cli.Command) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDIM\tLAYERS\tHEADS\tKV\tVOCAB\tINSTRUCT\tREPO")
			for _, spec := range model.List() {
				a := spec.Args
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%v\t%s\n",
					spec.Name, a.Dim, a.Layers, a.Heads, a.KVHeads, a.VocabSize,
					spec.Instruct, spec.HuggingFaceRepo)
			}
			return w.Flush()
		},
	}
}
