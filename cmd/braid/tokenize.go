package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kweston/braid/internal/tokenizer"
	"github.com/kweston/braid/internal/toy"
)

func tokenizeCmd() *cli.Command {
	var (
		text string
		bos  bool
		eos  bool
	)

	return &cli.Command{
		Name:  "tokenize",
		Usage: "Tokenize text and print the token ids",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"p"},
				Usage:       "text to tokenize",
				Destination: &text,
			},
			&cli.StringFlag{
				Name:        "tokenizer-json",
				Usage:       "path to a HuggingFace tokenizer.json (default: built-in byte tokenizer)",
				Destination: &tokenizerJSON,
			},
			&cli.BoolFlag{
				Name:        "bos",
				Usage:       "prepend the begin-of-text marker",
				Value:       true,
				Destination: &bos,
			},
			&cli.BoolFlag{
				Name:        "eos",
				Usage:       "append the end-of-text marker",
				Destination: &eos,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if text == "" {
				return cli.Exit("error: --text is required", 1)
			}

			var tok tokenizer.Tokenizer
			if tokenizerJSON != "" {
				hf, err := tokenizer.NewHF(tokenizerJSON, tokenizer.Llama3Specials())
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				defer func() { _ = hf.Close() }()
				tok = hf
			} else {
				tok = toy.NewTokenizer()
			}

			ids, err := tok.Encode(text, bos, eos)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode: %v", err), 1)
			}
			round, err := tok.Decode(ids)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: decode: %v", err), 1)
			}

			fmt.Printf("tokens: %d\n", len(ids))
			fmt.Printf("ids:    %v\n", ids)
			fmt.Printf("text:   %s\n", round)
			return nil
		},
	}
}
