package processor

import (
	"github.com/nguyentantai21042004/bibliosophia/internal/export"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/media"
	"github.com/nguyentantai21042004/bibliosophia/internal/notion"
	"github.com/nguyentantai21042004/bibliosophia/internal/summarizer"
	"github.com/nguyentantai21042004/bibliosophia/internal/transcriber"
)

type implProcessor struct {
	media       media.Media
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	publisher   notion.Publisher
	saver       export.Saver
	outputDir   string
	language    string
	logger      logger.Logger
	trace       func(State)
}

// Deps are the collaborators of a Processor. Publisher may be nil when
// Notion is not configured; publish requests are then skipped with a warning.
type Deps struct {
	Media       media.Media
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Publisher   notion.Publisher
	Saver       export.Saver
	// OutputDir is used when Options.OutputDir is empty.
	OutputDir string
	// Language is used when Options.Language is empty.
	Language string
	Logger   logger.Logger
}

// New creates a new Processor instance
func New(d Deps) Processor {
	return &implProcessor{
		media:       d.Media,
		transcriber: d.Transcriber,
		summarizer:  d.Summarizer,
		publisher:   d.Publisher,
		saver:       d.Saver,
		outputDir:   d.OutputDir,
		language:    d.Language,
		logger:      d.Logger,
	}
}
