package summarizer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	defaultMaxTokens = 4096
)

// Config selects and configures the summary backend. Prompt is the system
// prompt template; DefaultPrompt is used when empty.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Prompt    string
	MaxTokens int
}

type implAnthropic struct {
	client    anthropic.Client
	model     string
	prompt    string
	maxTokens int
	logger    logger.Logger
}

type implGemini struct {
	apiKey  string
	baseURL string
	model   string
	prompt  string
	logger  logger.Logger
}

// New creates the Summarizer named by cfg.Provider.
func New(cfg Config, log logger.Logger) (Summarizer, error) {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	switch cfg.Provider {
	case ProviderAnthropic, "":
		if cfg.Model == "" {
			cfg.Model = "claude-sonnet-4-6"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.anthropic.com"
		}
		// A summary request is not repeated: one call per run.
		client := anthropic.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(&http.Client{Timeout: 5 * time.Minute}),
			option.WithMaxRetries(0),
		)
		return &implAnthropic{
			client:    client,
			model:     cfg.Model,
			prompt:    cfg.Prompt,
			maxTokens: cfg.MaxTokens,
			logger:    log,
		}, nil
	case ProviderGemini:
		if cfg.Model == "" {
			cfg.Model = "gemini-2.5-flash"
		}
		return &implGemini{
			apiKey:  cfg.APIKey,
			baseURL: cfg.BaseURL,
			model:   cfg.Model,
			prompt:  cfg.Prompt,
			logger:  log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.Provider)
	}
}
