package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/format"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

const (
	fileTimeLayout    = "20060102_150405"
	processedLayout   = "02/01/2006 15:04"
	maxNameCollisions = 1000
)

// Saver writes a processed video to the local filesystem.
type Saver interface {
	// Save writes the markdown document under dir and returns its path.
	Save(ctx context.Context, info models.VideoInfo, summary, transcript, dir string) (string, error)
}

// Config controls the local save.
type Config struct {
	// Docx also writes a .docx next to the markdown file.
	Docx bool
	// Now defaults to time.Now.
	Now func() time.Time
}

type implSaver struct {
	docx   bool
	now    func() time.Time
	logger logger.Logger
}

// New creates a Saver
func New(cfg Config, log logger.Logger) Saver {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &implSaver{docx: cfg.Docx, now: cfg.Now, logger: log}
}

func (s *implSaver) Save(ctx context.Context, info models.VideoInfo, summary, transcript, dir string) (string, error) {
	now := s.now()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperror.Wrap(apperror.IOFailure, err, "Error guardando archivo: %v", err)
	}

	base := filepath.Join(dir, SanitizeFilename(info.Title)+"_"+now.Format(fileTimeLayout))
	f, path, err := createExclusive(base, ".md")
	if err != nil {
		return "", apperror.Wrap(apperror.IOFailure, err, "Error guardando archivo: %v", err)
	}

	_, werr := f.WriteString(RenderMarkdown(info, summary, transcript, now))
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return "", apperror.Wrap(apperror.IOFailure, err, "Error guardando archivo: %v", err)
	}

	s.logger.Info(ctx, "Saved markdown: %s", path)

	if s.docx {
		docxPath := strings.TrimSuffix(path, ".md") + ".docx"
		if err := writeDocx(info.Title, metaLines(info, now), summary, transcript, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to write docx: %v", err)
		} else {
			s.logger.Info(ctx, "Saved docx: %s", docxPath)
		}
	}

	return path, nil
}

// createExclusive opens base+ext, or base_2+ext, base_3+ext... for the first
// name that does not exist yet.
func createExclusive(base, ext string) (*os.File, string, error) {
	for i := 1; i <= maxNameCollisions; i++ {
		path := base + ext
		if i > 1 {
			path = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("create %s%s: too many files with the same name", base, ext)
}

// SanitizeFilename keeps letters, digits, spaces and '-', replaces everything
// else with '_', then trims and turns spaces into '_'.
func SanitizeFilename(title string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			return r
		}
		return '_'
	}, title)
	return strings.ReplaceAll(strings.TrimSpace(mapped), " ", "_")
}

func metaLines(info models.VideoInfo, now time.Time) string {
	return fmt.Sprintf("**Canal:** %s  \n**URL:** %s  \n**Duración:** %s  \n**Procesado:** %s",
		info.Channel, info.URL, format.FormatDuration(info.Duration), now.Format(processedLayout))
}

// RenderMarkdown builds the saved document: header, summary, full transcript.
func RenderMarkdown(info models.VideoInfo, summary, transcript string, now time.Time) string {
	var b strings.Builder
	b.WriteString("# " + info.Title + "\n\n")
	b.WriteString(metaLines(info, now) + "\n\n")
	b.WriteString("---\n\n## Resumen\n\n")
	b.WriteString(summary)
	b.WriteString("\n\n---\n\n## Transcripción completa\n\n")
	b.WriteString(transcript)
	b.WriteString("\n")
	return b.String()
}
