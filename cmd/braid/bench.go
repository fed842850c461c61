package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/kweston/braid/internal/generate"
	"github.com/kweston/braid/internal/logger"
)

func benchCmd() *cli.Command {
	var (
		warmupRuns int64
		benchRuns  int64
		prompt     string
		steps      int64
		temp       float64
		topP       float64
		seed       int64
	)

	flags := append([]cli.Flag{}, commonModelFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of benchmark runs",
			Value:       3,
			Destination: &benchRuns,
		},
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "prompt text for benchmarking",
			Value:       "Explain the theory of relativity in simple terms.",
			Destination: &prompt,
		},
		&cli.Int64Flag{
			Name:        "steps",
			Aliases:     []string{"n"},
			Usage:       "tokens to generate per run",
			Value:       128,
			Destination: &steps,
		},
		&cli.Float64Flag{
			Name:        "temp",
			Aliases:     []string{"temperature", "t"},
			Usage:       "sampling temperature",
			Value:       0.6,
			Destination: &temp,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Usage:       "nucleus sampling mass",
			Value:       0.9,
			Destination: &topP,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling RNG seed",
			Value:       42,
			Destination: &seed,
		},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Measure decode throughput",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, loadConfig(), &temp, &topP, nil, &seed)
			log := setupLogger()
			ctx = logger.WithContext(ctx, log)

			eng, cleanup, err := buildEngine(log, seed)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer cleanup()

			fmt.Println("=== Braid Benchmark ===")
			fmt.Printf("CPUs:       %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Printf("Steps:      %d tokens\n", steps)
			fmt.Printf("Warmup:     %d runs\n", warmupRuns)
			fmt.Printf("Runs:       %d\n", benchRuns)
			fmt.Println()

			n := int(steps)
			runSeed := seed
			opts := generate.Options{
				Temperature: &temp,
				TopP:        &topP,
				MaxGenLen:   &n,
				Seed:        &runSeed,
			}

			runOnce := func() (int, time.Duration, error) {
				start := time.Now()
				pred, err := eng.TextCompletion(ctx, prompt, opts)
				if err != nil {
					return 0, 0, err
				}
				return len(pred.Generation), time.Since(start), nil
			}

			for i := range int(warmupRuns) {
				if _, _, err := runOnce(); err != nil {
					return cli.Exit(fmt.Sprintf("error: warmup run %d: %v", i+1, err), 1)
				}
			}

			type runResult struct {
				TPS      float64
				Duration time.Duration
			}
			results := make([]runResult, 0, benchRuns)

			bar := progressbar.Default(benchRuns, "benchmark")
			for i := range int(benchRuns) {
				_, dur, err := runOnce()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: benchmark run %d: %v", i+1, err), 1)
				}
				results = append(results, runResult{
					TPS:      float64(steps) / dur.Seconds(),
					Duration: dur,
				})
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Println("\n=== Results ===")
			fmt.Printf("%-6s %10s %12s\n", "Run", "tok/s", "Duration")
			var sum float64
			for i, r := range results {
				fmt.Printf("%-6d %10.2f %12s\n", i+1, r.TPS, r.Duration.Round(time.Millisecond))
				sum += r.TPS
			}
			fmt.Printf("\n%-6s %10.2f\n", "Avg", sum/float64(len(results)))

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			fmt.Printf("\nMemory: %.1f MB alloc, %.1f MB sys\n",
				float64(mem.Alloc)/(1024*1024),
				float64(mem.Sys)/(1024*1024))
			return nil
		},
	}
}
