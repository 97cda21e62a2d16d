package media

import (
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/pkg/executor"
)

type implMedia struct {
	binary   string
	ffmpeg   string
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

// Config holds the executable names and the parent of per-run audio dirs.
type Config struct {
	Binary  string
	FFmpeg  string
	TempDir string
}

// New creates a Media backed by yt-dlp
func New(cfg Config, exec executor.Executor, log logger.Logger) Media {
	if cfg.Binary == "" {
		cfg.Binary = "yt-dlp"
	}
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	return &implMedia{
		binary:   cfg.Binary,
		ffmpeg:   cfg.FFmpeg,
		tempDir:  cfg.TempDir,
		executor: exec,
		logger:   log,
	}
}
