package watcher

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
)

var urlFileExts = []string{".url", ".txt"}

type implWatcher struct {
	inputDir    string
	archivedDir string
	settle      time.Duration
	handler     URLHandler
	logger      logger.Logger
	watcher     *fsnotify.Watcher
}

// Start begins monitoring the input directory. Files already present are
// handled first. Each file is handled to completion before the next event is
// read, so at most one pipeline runs at a time.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s", w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(urlFileExts, ", "))

	if err := w.drainExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isURLFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring unsupported file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New URL file detected: %s", event.Name)

			// Small delay to ensure file is fully written
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return ctx.Err()
			}

			w.handleFile(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) drainExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if e.IsDir() || !isURLFile(e.Name()) {
			continue
		}
		w.handleFile(ctx, filepath.Join(w.inputDir, e.Name()))
	}
	return nil
}

// handleFile runs the handler for every URL in path, then archives the file.
// Handler errors are logged; the file is archived either way so it is not
// picked up again.
func (w *implWatcher) handleFile(ctx context.Context, path string) {
	urls, err := ReadURLs(path)
	if err != nil {
		w.logger.Error(ctx, "Failed to read %s: %v", path, err)
		return
	}
	if len(urls) == 0 {
		w.logger.Warn(ctx, "No URL found in %s", path)
	}

	for _, url := range urls {
		if ctx.Err() != nil {
			return
		}
		if err := w.handler(ctx, url); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", url, err)
		}
	}

	if err := w.moveToArchived(ctx, path); err != nil {
		w.logger.Warn(ctx, "Failed to move file to archived folder: %v", err)
	}
}

// moveToArchived moves a handled file into the archived folder
func (w *implWatcher) moveToArchived(ctx context.Context, path string) error {
	dest := filepath.Join(w.archivedDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(dest, ext), time.Now().UnixNano(), ext)
	}

	w.logger.Info(ctx, "Moving to archived folder: %s -> %s", path, dest)

	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// isURLFile checks if the file has a supported drop file extension
func isURLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range urlFileExts {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadURLs returns the http(s) URLs of a drop file, one per line. Blank
// lines and '#' comments are skipped. Windows shortcut files contribute
// their "URL=" line.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "URL=")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}
	return urls, nil
}
