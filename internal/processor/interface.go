package processor

import (
	"context"

	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
)

// Processor runs the video pipeline: metadata, download, transcribe,
// summarize, then the optional save and publish branches.
type Processor interface {
	// Process runs one pipeline for url. A core stage failure returns a nil
	// result and that stage's classified error. When a save or publish branch
	// fails, the result is still returned together with the branch error.
	Process(ctx context.Context, url string, opts Options, sink progress.Sink) (*models.ProcessResult, error)
	// Cleanup removes the downloaded audio of a finished run.
	Cleanup(res *models.ProcessResult) error
}

// Options selects the output branches of one run.
type Options struct {
	Save      bool
	OutputDir string
	Publish   bool
	// Language overrides the configured transcription language.
	Language string
}
