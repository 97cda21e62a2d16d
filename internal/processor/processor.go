package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
)

const (
	DefaultLanguage     = "auto"
	msgNotionSkipped    = "⚠ Notion omitido: falta API key o Database ID en Ajustes."
	msgMissingOutputDir = "Guardado omitido: no hay carpeta de salida configurada."
)

// Process orchestrates the entire video processing pipeline
func (p *implProcessor) Process(ctx context.Context, url string, opts Options, sink progress.Sink) (*models.ProcessResult, error) {
	if sink == nil {
		sink = progress.Discard
	}
	startTime := time.Now()

	r := &run{
		state:  StateIdle,
		sink:   sink,
		logger: p.logger.WithField("run", uuid.New().String()),
		trace:  p.trace,
	}

	r.logger.Info(ctx, "Starting pipeline for %s", url)

	// Step 1: Metadata
	info, err := runStage(ctx, r, stage[models.VideoInfo]{
		id:       progress.StageMetadata,
		state:    StateFetchingMetadata,
		start:    "Obteniendo información del video...",
		done:     func(v models.VideoInfo) string { return "Video: " + v.Title },
		fallback: apperror.ToolFailure,
	}, func(func(progress.Event)) (models.VideoInfo, error) {
		return p.media.FetchInfo(ctx, url)
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	// Step 2: Download audio
	audioPath, err := runStage(ctx, r, stage[string]{
		id:       progress.StageDownload,
		state:    StateDownloading,
		start:    "Iniciando descarga de audio...",
		startPct: progress.Pct(0),
		done:     doneMessage[string]("Audio descargado correctamente."),
		fallback: apperror.ToolFailure,
	}, func(report func(progress.Event)) (string, error) {
		return p.media.DownloadAudio(ctx, url, report)
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	// Step 3: Transcribe
	language := p.language
	if opts.Language != "" {
		language = opts.Language
	}
	if language == "" {
		language = DefaultLanguage
	}

	transcript, err := runStage(ctx, r, stage[string]{
		id:       progress.StageTranscribe,
		state:    StateTranscribing,
		start:    fmt.Sprintf("Enviando audio a %s...", ProviderLabel(p.transcriber.Provider())),
		done:     doneMessage[string]("Transcripción completada."),
		fallback: apperror.NetworkFailure,
	}, func(func(progress.Event)) (string, error) {
		return p.transcriber.Transcribe(ctx, audioPath, language)
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	// Step 4: Summarize
	summary, err := runStage(ctx, r, stage[models.SummaryResult]{
		id:       progress.StageSummarize,
		state:    StateSummarizing,
		start:    fmt.Sprintf("Generando resumen con %s...", ProviderLabel(p.summarizer.Provider())),
		done:     doneMessage[models.SummaryResult]("Resumen generado correctamente."),
		fallback: apperror.NetworkFailure,
	}, func(func(progress.Event)) (models.SummaryResult, error) {
		return p.summarizer.Summarize(ctx, info, transcript)
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	res := &models.ProcessResult{
		VideoInfo:            info,
		Transcript:           transcript,
		Summary:              summary.Summary,
		TokensUsed:           summary.TotalTokens,
		AudioDurationSeconds: float32(info.Duration),
		CostEstimate:         summary.CostUSD,
		Language:             language,
		AudioPath:            audioPath,
	}

	// Step 5: Output branches, each independent of the other
	var branchErrs []error

	if opts.Save {
		if err := p.save(ctx, r, res, opts.OutputDir); err != nil {
			branchErrs = append(branchErrs, err)
		}
	}

	if opts.Publish {
		if err := p.publish(ctx, r, res); err != nil {
			branchErrs = append(branchErrs, err)
		}
	}

	if err := errors.Join(branchErrs...); err != nil {
		r.logger.Warn(ctx, "Pipeline finished with output errors: %v", err)
		r.enter(ctx, StateFailed)
		return res, err
	}

	r.enter(ctx, StateDone)
	r.logger.Info(ctx, "Pipeline completed in %s (tokens: %d, cost: $%.2f)",
		time.Since(startTime).Round(time.Millisecond), res.TokensUsed, res.CostEstimate)

	return res, nil
}

func (p *implProcessor) save(ctx context.Context, r *run, res *models.ProcessResult, dir string) error {
	if dir == "" {
		dir = p.outputDir
	}
	if dir == "" || p.saver == nil {
		r.logger.Warn(ctx, "%s", msgMissingOutputDir)
		r.sink.Emit(progress.Event{Stage: progress.StageSave, Message: msgMissingOutputDir})
		return nil
	}

	path, err := runStage(ctx, r, stage[string]{
		id:       progress.StageSave,
		state:    StateSaving,
		start:    "Guardando archivo Markdown...",
		done:     func(path string) string { return "Guardado en: " + path },
		fallback: apperror.IOFailure,
	}, func(func(progress.Event)) (string, error) {
		return p.saver.Save(ctx, res.VideoInfo, res.Summary, res.Transcript, dir)
	})
	if err != nil {
		r.logger.Error(ctx, "Save failed: %v", err)
		return err
	}

	res.SavedPath = path
	return nil
}

func (p *implProcessor) publish(ctx context.Context, r *run, res *models.ProcessResult) error {
	if p.publisher == nil {
		r.logger.Warn(ctx, "%s", msgNotionSkipped)
		r.sink.Emit(progress.Event{Stage: progress.StagePublish, Message: msgNotionSkipped})
		return nil
	}

	url, err := runStage(ctx, r, stage[string]{
		id:       progress.StagePublish,
		state:    StatePublishing,
		start:    "Enviando a Notion...",
		done:     doneMessage[string]("Entrada creada en Notion."),
		fallback: apperror.NetworkFailure,
	}, func(func(progress.Event)) (string, error) {
		return p.publisher.Publish(ctx, res.VideoInfo, res.Summary, res.Transcript)
	})
	if err != nil {
		r.logger.Error(ctx, "Publish failed: %v", err)
		return err
	}

	res.PageURL = url
	return nil
}

// ProviderLabel names a provider id in progress messages.
func ProviderLabel(provider string) string {
	switch provider {
	case "groq":
		return "Groq Whisper"
	case "anthropic":
		return "Claude"
	case "gemini":
		return "Gemini"
	}
	return provider
}
