package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nguyentantai21042004/bibliosophia/internal/format"
	"github.com/nguyentantai21042004/bibliosophia/internal/processor"
	"github.com/nguyentantai21042004/bibliosophia/internal/usage"
	"github.com/nguyentantai21042004/bibliosophia/internal/watcher"
)

func processAction(c *cli.Context) error {
	url := c.Args().First()
	if url == "" {
		return cli.Exit("usage: bibliosophia process URL", 2)
	}

	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := processor.Options{
		Save:      a.cfg.Save.Enabled,
		Publish:   a.cfg.Notion.Enabled,
		OutputDir: c.String("output"),
		Language:  c.String("language"),
	}
	if c.IsSet("save") {
		opts.Save = c.Bool("save")
	}
	if c.IsSet("notion") {
		opts.Publish = c.Bool("notion")
	}

	res, err := a.run(c.Context, url, opts, c.Bool("keep-audio"))
	if res != nil {
		fmt.Println()
		fmt.Printf("Título:    %s\n", res.VideoInfo.Title)
		fmt.Printf("Canal:     %s\n", res.VideoInfo.Channel)
		fmt.Printf("Duración:  %s\n", format.FormatDuration(res.VideoInfo.Duration))
		fmt.Printf("Tokens:    %d\n", res.TokensUsed)
		fmt.Printf("Costo:     $%.2f\n", res.CostEstimate)
		if res.SavedPath != "" {
			fmt.Printf("Archivo:   %s\n", res.SavedPath)
		}
		if res.PageURL != "" {
			fmt.Printf("Notion:    %s\n", res.PageURL)
		}
		if !opts.Save && !opts.Publish {
			fmt.Printf("\n%s\n", res.Summary)
		}
	}
	return err
}

func watchAction(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := processor.Options{Save: a.cfg.Save.Enabled, Publish: a.cfg.Notion.Enabled}

	handler := func(ctx context.Context, url string) error {
		res, err := a.run(ctx, url, opts, false)
		if res != nil {
			a.log.Info(ctx, "Processed %q (tokens: %d, cost: $%.2f)", res.VideoInfo.Title, res.TokensUsed, res.CostEstimate)
		}
		return err
	}

	w, err := watcher.New(watcher.Config{
		InputDir:    a.cfg.Paths.Input,
		ArchivedDir: a.cfg.Paths.Archived,
	}, handler, a.log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	a.log.Info(c.Context, "Drop .url or .txt files with video URLs into %s. Press Ctrl+C to stop", a.cfg.Paths.Input)

	if err := w.Start(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info(c.Context, "Watcher stopped")
	return nil
}

func depsAction(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	status := newMedia(cfg, log).CheckDeps(c.Context)

	if status.ToolVersion != "" {
		fmt.Printf("✓ yt-dlp %s\n", status.ToolVersion)
	} else {
		fmt.Println("✗ yt-dlp no encontrado. Instálalo con: pip install yt-dlp")
	}
	if status.FFmpegAvailable {
		fmt.Println("✓ ffmpeg")
	} else {
		fmt.Println("✗ ffmpeg no encontrado. Es necesario para convertir el audio a MP3.")
	}

	if status.ToolVersion == "" || !status.FFmpegAvailable {
		return cli.Exit("", 1)
	}
	return nil
}

func usageAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}

	ledger, err := usage.Open(cfg.Usage.DBPath, cfg.Usage.MaxEntries)
	if err != nil {
		return fmt.Errorf("open usage ledger: %w", err)
	}
	defer ledger.Close()

	if path := c.String("export"); path != "" {
		if err := ledger.Export(c.Context, path); err != nil {
			return err
		}
		fmt.Printf("Historial exportado a %s\n", path)
		return nil
	}

	now := time.Now()
	report, err := ledger.Report(c.Context, usage.MonthStart(now))
	if err != nil {
		return err
	}

	fmt.Printf("Uso de %s\n", now.Format("01/2006"))
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Videos:   %d\n", report.Videos)
	fmt.Printf("Costo:    $%.2f\n", report.CostUSD)
	fmt.Printf("Tokens:   %d\n", report.Tokens)
	fmt.Printf("Minutos:  %.1f\n", report.Minutes)

	providers := make([]string, 0, len(report.ByProvider))
	for name := range report.ByProvider {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	for _, name := range providers {
		p := report.ByProvider[name]
		fmt.Printf("  %-28s %3d videos  %8d tokens  $%.2f\n", name, p.Videos, p.Tokens, p.CostUSD)
	}

	entries, err := ledger.Entries(c.Context)
	if err != nil {
		return err
	}
	if limit := c.Int("limit"); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Printf("%-20s %-40s %8s %8s\n", "Fecha", "Video", "Tokens", "Costo")
	fmt.Println(strings.Repeat("-", 80))
	for _, e := range entries {
		ts := e.Timestamp
		if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			ts = t.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %-40s %8d %8.2f\n", ts, truncate(e.VideoTitle, 40), e.TokensUsed, e.CostUSD)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
