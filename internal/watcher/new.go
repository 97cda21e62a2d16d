package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
)

const defaultSettle = 500 * time.Millisecond

// Config locates the drop folders.
type Config struct {
	InputDir    string
	ArchivedDir string
	// Settle is the delay before reading a newly created file.
	Settle time.Duration
}

// New creates a Watcher that runs handler for every URL file dropped into
// cfg.InputDir, one file at a time.
func New(cfg Config, handler URLHandler, log logger.Logger) (Watcher, error) {
	for _, dir := range []string{cfg.InputDir, cfg.ArchivedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.InputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if cfg.Settle <= 0 {
		cfg.Settle = defaultSettle
	}

	return &implWatcher{
		inputDir:    cfg.InputDir,
		archivedDir: cfg.ArchivedDir,
		settle:      cfg.Settle,
		handler:     handler,
		logger:      log,
		watcher:     watcher,
	}, nil
}
