package summarizer

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/format"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

func (s *implAnthropic) Provider() string { return ProviderAnthropic }

func (s *implAnthropic) Model() string { return s.model }

// Summarize calls the Anthropic Messages API once
func (s *implAnthropic) Summarize(ctx context.Context, info models.VideoInfo, transcript string) (models.SummaryResult, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: BuildSystemPrompt(s.prompt, info, transcript)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildUserMessage(info, transcript))),
		},
	}

	s.logger.Info(ctx, "Summarizing %d characters with %s", len(transcript), s.model)

	var resp *http.Response
	msg, err := s.client.Messages.New(ctx, params, option.WithResponseInto(&resp))
	if err != nil {
		return models.SummaryResult{}, classifyAnthropic(err, resp)
	}
	if len(msg.Content) == 0 || msg.Content[0].Type != "text" {
		return models.SummaryResult{}, apperror.New(apperror.ParseFailure, "Respuesta inesperada de Anthropic")
	}

	in, out := uint32(msg.Usage.InputTokens), uint32(msg.Usage.OutputTokens)
	result := models.NewSummaryResult(msg.Content[0].Text, in, out, format.EstimateCost(s.model, in, out))

	s.logger.Info(ctx, "Summary ready: %d tokens (~$%.4f)", result.TotalTokens, result.CostUSD)
	return result, nil
}

// classifyAnthropic maps an SDK error onto an apperror kind. resp is the
// HTTP response the SDK saw, nil when the request never got one.
func classifyAnthropic(err error, resp *http.Response) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return apperror.New(apperror.InvalidCredential,
				"API key de Anthropic inválida. Verifica tu configuración en Ajustes.")
		}
		return apperror.Rejected("Anthropic", apiErr.StatusCode, apiErr.RawJSON())
	}
	if resp != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return apperror.Wrap(apperror.ParseFailure, err, "Error parseando respuesta de Anthropic: %v", err)
	}
	return apperror.Wrap(apperror.NetworkFailure, err, "Error conectando con Anthropic: %v", err)
}
