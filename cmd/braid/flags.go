package main

import "github.com/urfave/cli/v3"

var (
	modelName     string
	tokenizerJSON string
	maxSeqLen     int64
	hiddenDim     int64
	weightSeed    int64
	logLevel      string
	logFormat     string
	debug         bool
)

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "catalog model name (see 'braid models')",
			Destination: &modelName,
		},
		&cli.StringFlag{
			Name:        "tokenizer-json",
			Usage:       "path to a HuggingFace tokenizer.json (default: built-in byte tokenizer)",
			Destination: &tokenizerJSON,
		},
		&cli.Int64Flag{
			Name:        "max-seq-len",
			Aliases:     []string{"ctx", "c"},
			Usage:       "max total sequence length (prompt + generation)",
			Value:       2048,
			Destination: &maxSeqLen,
		},
		&cli.Int64Flag{
			Name:        "hidden",
			Usage:       "hidden width of the seeded toy weights",
			Value:       64,
			Destination: &hiddenDim,
		},
		&cli.Int64Flag{
			Name:        "weight-seed",
			Usage:       "seed for the toy weight initialisation",
			Value:       1,
			Destination: &weightSeed,
		},
	}
}

func samplingFlags(temp *float64, topP *float64, maxGenLen *int64, seed *int64) []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "temp",
			Aliases:     []string{"temperature", "t"},
			Usage:       "sampling temperature (0 = greedy)",
			Value:       0.6,
			Destination: temp,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Aliases:     []string{"top_p", "topp"},
			Usage:       "nucleus sampling mass in (0, 1]",
			Value:       0.9,
			Destination: topP,
		},
		&cli.Int64Flag{
			Name:        "max-gen-len",
			Aliases:     []string{"n"},
			Usage:       "max tokens to generate (0 = up to the context limit)",
			Destination: maxGenLen,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling RNG seed (default -1 = fresh per request)",
			Value:       -1,
			Destination: seed,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
