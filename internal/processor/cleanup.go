package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

// audioDirPrefix matches the per-run directories created by the download stage.
const audioDirPrefix = "audio-"

// Cleanup removes the downloaded audio file and its per-run directory
func (p *implProcessor) Cleanup(res *models.ProcessResult) error {
	if res == nil || res.AudioPath == "" {
		return nil
	}

	if err := os.Remove(res.AudioPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove audio: %w", err)
	}

	dir := filepath.Dir(res.AudioPath)
	if strings.HasPrefix(filepath.Base(dir), audioDirPrefix) {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove audio dir: %w", err)
		}
	}

	res.AudioPath = ""
	return nil
}
