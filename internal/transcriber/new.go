package transcriber

import (
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "whisper-large-v3"

	// MaxFileBytes is the upload limit of the Groq speech endpoint.
	MaxFileBytes = 25 * 1_048_576
)

type implTranscriber struct {
	client *openai.Client
	model  string
	logger logger.Logger
}

// Config selects the OpenAI-compatible speech endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// New creates a Transcriber for Groq Whisper over the OpenAI-compatible API.
func New(cfg Config, log logger.Logger) Transcriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &implTranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: log,
	}
}

func (t *implTranscriber) Provider() string {
	return "groq"
}
