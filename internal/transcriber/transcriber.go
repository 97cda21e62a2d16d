package transcriber

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/sashabaranov/go-openai"
)

// Transcribe uploads audioPath and returns the trimmed transcript. Files over
// MaxFileBytes are rejected before any request is made. language "auto" or
// "" lets the service detect it.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", apperror.Wrap(apperror.IOFailure, err, "Error leyendo archivo de audio: %v", err)
	}

	sizeMB := float64(info.Size()) / 1_048_576.0
	if info.Size() > MaxFileBytes {
		return "", apperror.New(apperror.PayloadTooLarge,
			"El archivo de audio (%.1f MB) excede el límite de 25 MB de Groq. Prueba con un video más corto.", sizeMB)
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return "", apperror.Wrap(apperror.IOFailure, err, "Error leyendo archivo de audio: %v", err)
	}
	defer f.Close()

	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Reader:   f,
		Format:   openai.AudioResponseFormatText,
	}
	if language != "" && language != "auto" {
		req.Language = language
	}

	t.logger.Info(ctx, "Sending %.1f MB to %s", sizeMB, t.model)

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", classify(err)
	}

	return strings.TrimSpace(resp.Text), nil
}

func classify(err error) error {
	status, body := 0, ""

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, body = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
	default:
		return apperror.Wrap(apperror.NetworkFailure, err, "Error conectando con Groq: %v", err)
	}

	switch status {
	case http.StatusUnauthorized:
		return apperror.Wrap(apperror.InvalidCredential, err, "API key de Groq inválida. Verifica tu configuración en Ajustes.")
	case http.StatusRequestEntityTooLarge:
		return apperror.Wrap(apperror.PayloadTooLarge, err, "El archivo de audio es demasiado grande para Groq.")
	}

	rejected := apperror.Rejected("Groq", status, body)
	rejected.Err = err
	return rejected
}
