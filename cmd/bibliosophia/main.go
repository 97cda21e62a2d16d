package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "bibliosophia",
		Usage: "Transcribe y resume videos, luego guarda el resultado o lo publica en Notion",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "run the pipeline for one video URL",
				ArgsUsage: "URL",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "save", Usage: "write a markdown file (default from save.enabled)"},
					&cli.BoolFlag{Name: "notion", Usage: "publish to Notion (default from notion.enabled)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory for --save"},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "transcription language, or auto"},
					&cli.BoolFlag{Name: "keep-audio", Usage: "keep the downloaded mp3"},
				},
				Action: processAction,
			},
			{
				Name:   "watch",
				Usage:  "process URL files dropped into paths.input",
				Action: watchAction,
			},
			{
				Name:   "deps",
				Usage:  "check that yt-dlp and ffmpeg are installed",
				Action: depsAction,
			},
			{
				Name:  "usage",
				Usage: "show this month's usage and the recent history",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "export", Usage: "write the full history to an .xlsx file"},
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "history entries to print"},
				},
				Action: usageAction,
			},
		},
	}
}
