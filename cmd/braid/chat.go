package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kweston/braid/internal/dialog"
	"github.com/kweston/braid/internal/generate"
	"github.com/kweston/braid/internal/logger"
)

func chatCmd() *cli.Command {
	var (
		system    string
		temp      float64
		topP      float64
		maxGenLen int64
		seed      int64
	)

	flags := append([]cli.Flag{}, commonModelFlags()...)
	flags = append(flags, samplingFlags(&temp, &topP, &maxGenLen, &seed)...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "system",
			Aliases:     []string{"sys"},
			Usage:       "optional system prompt",
			Destination: &system,
		},
	)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			applyConfig(c, loadConfig(), &temp, &topP, &maxGenLen, &seed)
			log := setupLogger()
			ctx = logger.WithContext(ctx, log)

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

			var msgs []dialog.Message
			if system != "" {
				msgs = append(msgs, dialog.Message{Role: dialog.RoleSystem, Content: system})
			}

			fmt.Println("Type a message, /reset to clear history, /exit to quit.")
			in := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !in.Scan() {
					fmt.Println()
					return in.Err()
				}
				line := strings.TrimSpace(in.Text())
				switch line {
				case "":
					continue
				case "/exit", "/quit":
					return nil
				case "/reset":
					msgs = msgs[:0]
					if system != "" {
						msgs = append(msgs, dialog.Message{Role: dialog.RoleSystem, Content: system})
					}
					fmt.Println("history cleared")
					continue
				}

				msgs = append(msgs, dialog.Message{Role: dialog.RoleUser, Content: line})
				pred, err := eng.ChatCompletion(ctx, msgs, opts)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}

				reply := pred.Generation
				if len(reply.ToolCalls) > 0 {
					for _, call := range reply.ToolCalls {
						fmt.Printf("[tool call] %s(%v)\n", call.Name, call.Arguments)
					}
				} else {
					fmt.Println(reply.Content)
				}
				if reply.StopReason == dialog.StopOutOfTokens {
					log.Warn("reply truncated", "stop_reason", string(reply.StopReason))
				}

				msgs = append(msgs, dialog.Message{Role: reply.Role, Content: reply.Content})
			}
		},
	}
}
