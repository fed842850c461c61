package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kweston/braid/internal/generate"
	"github.com/kweston/braid/internal/logger"
)

func runCmd() *cli.Command {
	var (
		prompt     string
		temp       float64
		topP       float64
		maxGenLen  int64
		seed       int64
		echoPrompt bool
		quiet      bool
		logProbs   bool
	)

	flags := append([]cli.Flag{}, commonModelFlags()...)
	flags = append(flags, samplingFlags(&temp, &topP, &maxGenLen, &seed)...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "prompt text",
			Destination: &prompt,
		},
		&cli.BoolFlag{
			Name:        "echo-prompt",
			Usage:       "print the prompt before the generation",
			Destination: &echoPrompt,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "suppress streaming; print the result once at the end",
			Destination: &quiet,
		},
		&cli.BoolFlag{
			Name:        "logprobs",
			Usage:       "print per-token log-probabilities after the generation",
			Destination: &logProbs,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Generate a text completion for a prompt",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, loadConfig(), &temp, &topP, &maxGenLen, &seed)
			log := setupLogger()
			ctx = logger.WithContext(ctx, log)

			if prompt == "" {
				return cli.Exit("error: --prompt is required", 1)
			}

			eng, cleanup, err := buildEngine(log, seed)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer cleanup()

			opts := generate.Options{Temperature: &temp, TopP: &topP}
			if maxGenLen > 0 {
				n := int(maxGenLen)
				opts.MaxGenLen = &n
			}
			if logProbs {
				t := true
				opts.LogProbs = &t
			}

			mode := streamInstant
			if quiet {
				mode = streamQuiet
			}
			out := newStreamWriter(mode, os.Stdout)
			if echoPrompt {
				out.Write(prompt)
			}

			promptTokens, err := eng.Tokenizer().Encode(prompt, true, false)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode prompt: %v", err), 1)
			}

			start := time.Now()
			stream, err := eng.Generate(ctx, promptTokens, opts)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			var (
				generated int
				allProbs  [][]float64
			)
			for {
				res, err := stream.Next()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				if res == nil {
					break
				}
				generated++
				out.Write(res.Text)
				if logProbs {
					allProbs = append(allProbs, res.LogProbs)
				}
			}
			out.Flush()
			fmt.Println()

			elapsed := time.Since(start)
			log.Info("generation complete",
				"prompt_tokens", len(promptTokens),
				"generated_tokens", generated,
				"duration", elapsed.Round(time.Millisecond),
				"tok_per_sec", fmt.Sprintf("%.1f", float64(generated)/elapsed.Seconds()))

			if logProbs {
				for i, probs := range allProbs {
					fmt.Printf("step %-4d %v\n", i, probs)
				}
			}
			return nil
		},
	}
}
