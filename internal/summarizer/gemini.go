package summarizer

import (
	"context"
	"errors"
	"net/http"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/format"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"google.golang.org/genai"
)

func (s *implGemini) Provider() string { return ProviderGemini }

func (s *implGemini) Model() string { return s.model }

// Summarize sends the same prompt contract to Gemini.
func (s *implGemini) Summarize(ctx context.Context, info models.VideoInfo, transcript string) (models.SummaryResult, error) {
	cfg := &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return models.SummaryResult{}, apperror.Wrap(apperror.NetworkFailure, err, "Error conectando con Gemini: %v", err)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: BuildSystemPrompt(s.prompt, info, transcript)}},
		},
	}

	s.logger.Info(ctx, "Summarizing %d characters with %s", len(transcript), s.model)

	result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(BuildUserMessage(info, transcript)), genCfg)
	if err != nil {
		return models.SummaryResult{}, classifyGemini(err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return models.SummaryResult{}, apperror.New(apperror.ParseFailure, "Respuesta inesperada de Gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return models.SummaryResult{}, apperror.New(apperror.ParseFailure, "Respuesta inesperada de Gemini")
	}

	var in, out uint32
	if result.UsageMetadata != nil {
		in = uint32(result.UsageMetadata.PromptTokenCount)
		out = uint32(result.UsageMetadata.CandidatesTokenCount)
	}

	summary := models.NewSummaryResult(text, in, out, format.EstimateCost(s.model, in, out))
	s.logger.Info(ctx, "Summary ready: %d tokens (~$%.4f)", summary.TotalTokens, summary.CostUSD)
	return summary, nil
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return apperror.Wrap(apperror.NetworkFailure, err, "Error conectando con Gemini: %v", err)
	}
	if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
		return apperror.Wrap(apperror.InvalidCredential, err,
			"API key de Gemini inválida. Verifica tu configuración en Ajustes.")
	}
	rejected := apperror.Rejected("Gemini", apiErr.Code, apiErr.Message)
	rejected.Err = err
	return rejected
}
