package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(newApp(), os.Args))
}

// run returns the process exit code. Errors are logged through the logger set up by the app.
func run(app *cli.App, args []string) int {
	if err := app.Run(args); err != nil {
		slog.Error("qagen failed", "err", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qagen",
		Usage: "Generate embedded question-answer pairs from web pages and text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log chunks, raw completions and parsed pairs",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write JSON output to this file instead of stdout",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "text",
				Usage:     "Generate pairs from a text or HTML file (stdin when omitted)",
				ArgsUsage: "[file]",
				Action:    textCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Source URL to tag every pair with",
					},
				},
			},
			{
				Name:      "urls",
				Usage:     "Render each URL and generate pairs from its content",
				ArgsUsage: "<url>...",
				Action:    urlsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of pages processed at once (overrides config)",
					},
				},
			},
			{
				Name:      "chunk",
				Usage:     "Show how a text or HTML file would be chunked",
				ArgsUsage: "[file]",
				Action:    chunkCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))
	if c.Bool("verbose") {
		levelStr = "debug"
	}

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Status lines share stderr with the logs; stdout carries only JSON.
	color.Output = c.App.ErrWriter

	return nil
}
