package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

// Summarizer sends a transcript to a language model and returns the
// structured markdown summary with token accounting.
type Summarizer interface {
	Summarize(ctx context.Context, info models.VideoInfo, transcript string) (models.SummaryResult, error)
	// Provider names the backend ("anthropic", "gemini").
	Provider() string
	// Model is the model identifier sent with every request.
	Model() string
}
