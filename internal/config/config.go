package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	Media         MediaConfig         `yaml:"media"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summary       SummaryConfig       `yaml:"summary"`
	Notion        NotionConfig        `yaml:"notion"`
	Save          SaveConfig          `yaml:"save"`
	Paths         PathsConfig         `yaml:"paths"`
	Usage         UsageConfig         `yaml:"usage"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type MediaConfig struct {
	BinaryPath string `yaml:"binary_path"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

type TranscriptionConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	APIKey   string `yaml:"-"`
}

type SummaryConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	PromptFile string `yaml:"prompt_file"`
	MaxTokens  int    `yaml:"max_tokens"`

	AnthropicAPIKey string `yaml:"-"`
	GeminiAPIKey    string `yaml:"-"`
}

type NotionConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	ParentID string `yaml:"parent_id"`
	APIKey   string `yaml:"-"`
}

type SaveConfig struct {
	Enabled bool `yaml:"enabled"`
	Docx    bool `yaml:"docx"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type UsageConfig struct {
	DBPath     string `yaml:"db_path"`
	MaxEntries int    `yaml:"max_entries"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderGroq      = "groq"
)

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Media.BinaryPath == "" {
		c.Media.BinaryPath = "yt-dlp"
	}
	if c.Media.FFmpegPath == "" {
		c.Media.FFmpegPath = "ffmpeg"
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = ProviderGroq
	}
	if c.Transcription.Provider != ProviderGroq {
		return fmt.Errorf("transcription.provider %q is not supported", c.Transcription.Provider)
	}
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-large-v3"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "auto"
	}

	if c.Summary.Provider == "" {
		c.Summary.Provider = ProviderAnthropic
	}
	switch c.Summary.Provider {
	case ProviderAnthropic:
		if c.Summary.Model == "" {
			c.Summary.Model = "claude-sonnet-4-6"
		}
		if c.Summary.BaseURL == "" {
			c.Summary.BaseURL = "https://api.anthropic.com"
		}
	case ProviderGemini:
		if c.Summary.Model == "" {
			c.Summary.Model = "gemini-2.5-flash"
		}
	default:
		return fmt.Errorf("summary.provider %q is not supported", c.Summary.Provider)
	}
	if c.Summary.MaxTokens == 0 {
		c.Summary.MaxTokens = 4096
	}

	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com"
	}

	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Usage.DBPath == "" {
		c.Usage.DBPath = filepath.Join("data", "usage.db")
	}
	if c.Usage.MaxEntries == 0 {
		c.Usage.MaxEntries = 200
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}

// SummaryAPIKey returns the credential of the selected summary provider.
func (c *Config) SummaryAPIKey() string {
	if c.Summary.Provider == ProviderGemini {
		return c.Summary.GeminiAPIKey
	}
	return c.Summary.AnthropicAPIKey
}

// RequireCredentials reports the first missing credential needed by the
// core stages.
func (c *Config) RequireCredentials() error {
	if c.Transcription.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.SummaryAPIKey() == "" {
		if c.Summary.Provider == ProviderGemini {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

// NotionReady reports whether publishing has the credentials it needs.
func (c *Config) NotionReady() bool {
	return c.Notion.APIKey != "" && c.Notion.ParentID != ""
}
