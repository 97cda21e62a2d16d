package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nguyentantai21042004/bibliosophia/internal/config"
	"github.com/nguyentantai21042004/bibliosophia/internal/export"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/media"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"github.com/nguyentantai21042004/bibliosophia/internal/notion"
	"github.com/nguyentantai21042004/bibliosophia/internal/processor"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
	"github.com/nguyentantai21042004/bibliosophia/internal/summarizer"
	"github.com/nguyentantai21042004/bibliosophia/internal/transcriber"
	"github.com/nguyentantai21042004/bibliosophia/internal/usage"
	"github.com/nguyentantai21042004/bibliosophia/pkg/executor"
)

// app holds the wired dependencies of one command invocation.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	media  media.Media
	proc   processor.Processor
	sum    summarizer.Summarizer
	trans  transcriber.Transcriber
	ledger usage.Ledger
}

func loadConfig(c *cli.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

func newMedia(cfg *config.Config, log logger.Logger) media.Media {
	return media.New(media.Config{
		Binary:  cfg.Media.BinaryPath,
		FFmpeg:  cfg.Media.FFmpegPath,
		TempDir: cfg.Paths.Temp,
	}, executor.New(), log)
}

// newApp wires the full pipeline. Credentials for transcription and
// summarization are required; Notion is optional.
func newApp(c *cli.Context) (*app, error) {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	prompt, err := summarizer.LoadPrompt(cfg.Summary.PromptFile)
	if err != nil {
		return nil, err
	}

	sum, err := summarizer.New(summarizer.Config{
		Provider:  cfg.Summary.Provider,
		Model:     cfg.Summary.Model,
		APIKey:    cfg.SummaryAPIKey(),
		BaseURL:   cfg.Summary.BaseURL,
		Prompt:    prompt,
		MaxTokens: cfg.Summary.MaxTokens,
	}, log)
	if err != nil {
		return nil, err
	}

	trans := transcriber.New(transcriber.Config{
		APIKey:  cfg.Transcription.APIKey,
		BaseURL: cfg.Transcription.BaseURL,
		Model:   cfg.Transcription.Model,
	}, log)

	m := newMedia(cfg, log)

	deps := processor.Deps{
		Media:       m,
		Transcriber: trans,
		Summarizer:  sum,
		Saver:       export.New(export.Config{Docx: cfg.Save.Docx}, log),
		OutputDir:   cfg.Paths.Output,
		Language:    cfg.Transcription.Language,
		Logger:      log,
	}
	if cfg.NotionReady() {
		deps.Publisher = notion.New(notion.Config{
			APIKey:   cfg.Notion.APIKey,
			ParentID: cfg.Notion.ParentID,
			BaseURL:  cfg.Notion.BaseURL,
		}, log)
	}

	ledger, err := usage.Open(cfg.Usage.DBPath, cfg.Usage.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("open usage ledger: %w", err)
	}

	return &app{
		cfg:    cfg,
		log:    log,
		media:  m,
		proc:   processor.New(deps),
		sum:    sum,
		trans:  trans,
		ledger: ledger,
	}, nil
}

func (a *app) Close() error {
	return a.ledger.Close()
}

// run processes one URL, printing progress and recording usage. A result
// returned together with an output branch error is still recorded.
func (a *app) run(ctx context.Context, url string, opts processor.Options, keepAudio bool) (*models.ProcessResult, error) {
	sink := progress.NewChanSink(64)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range sink.Events() {
			printEvent(ev)
		}
	}()

	res, err := a.proc.Process(ctx, url, opts, sink)
	sink.Close()
	<-printed

	if res == nil {
		return nil, err
	}

	entry := models.NewUsageEntry(res,
		processor.ProviderLabel(a.trans.Provider()), a.sum.Model(), time.Now())
	if rerr := a.ledger.Record(ctx, entry); rerr != nil {
		a.log.Warn(ctx, "Failed to record usage: %v", rerr)
	}

	if !keepAudio {
		if cerr := a.proc.Cleanup(res); cerr != nil {
			a.log.Warn(ctx, "Failed to remove audio: %v", cerr)
		}
	}

	return res, err
}

func printEvent(ev progress.Event) {
	if ev.Message == "" {
		return
	}
	if ev.Percent != nil {
		fmt.Printf("[%-10s] %5.1f%% %s\n", ev.Stage, *ev.Percent, ev.Message)
		return
	}
	fmt.Printf("[%-10s]        %s\n", ev.Stage, ev.Message)
}
