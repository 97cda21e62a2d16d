package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
	"github.com/nguyentantai21042004/bibliosophia/pkg/executor"
)

// DownloadAudio extracts the audio of url as mp3 with yt-dlp
func (m *implMedia) DownloadAudio(ctx context.Context, url string, report func(progress.Event)) (string, error) {
	if _, err := m.executor.Execute(ctx, m.binary, "--version"); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", apperror.Wrap(apperror.ToolMissing, err, msgToolMissing)
		}
		return "", apperror.Wrap(apperror.ToolFailure, err, "yt-dlp no está disponible.")
	}

	audioDir, err := m.newAudioDir()
	if err != nil {
		return "", apperror.Wrap(apperror.IOFailure, err, "Error creando directorio temporal: %v", err)
	}

	args := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--no-playlist",
		"--newline",
		"-o", filepath.Join(audioDir, "%(id)s.%(ext)s"),
		url,
	}

	m.logger.Info(ctx, "Downloading audio into %s", audioDir)

	onLine := func(line string) {
		if ev, ok := progress.ParseDownloadLine(line); ok && report != nil {
			report(ev)
		}
	}

	if err := m.executor.Stream(ctx, m.binary, args, onLine); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", apperror.Wrap(apperror.ToolMissing, err, msgToolMissing)
		}
		var cmdErr *executor.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Stderr != "" {
			m.logger.Warn(ctx, "yt-dlp stderr: %s", cmdErr.Stderr)
		}
		return "", apperror.Wrap(apperror.ToolFailure, err,
			"La descarga falló. Verifica que la URL sea válida y el video sea público.")
	}

	audioPath, err := newestMP3(audioDir)
	if err != nil {
		return "", err
	}

	m.logger.Info(ctx, "Audio downloaded: %s", audioPath)
	return audioPath, nil
}

func (m *implMedia) newAudioDir() (string, error) {
	parent := m.tempDir
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return os.MkdirTemp(parent, "audio-*")
}

// newestMP3 returns the most recently modified .mp3 file in dir.
func newestMP3(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", apperror.Wrap(apperror.IOFailure, err, "Error leyendo directorio: %v", err)
	}

	var (
		newest  string
		modTime time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(modTime) {
			newest = filepath.Join(dir, e.Name())
			modTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", apperror.New(apperror.ToolFailure, "No se encontró el archivo de audio descargado.")
	}
	return newest, nil
}

// CheckDeps reports the yt-dlp version and whether ffmpeg runs
func (m *implMedia) CheckDeps(ctx context.Context) DepsStatus {
	var status DepsStatus

	if out, err := m.executor.Execute(ctx, m.binary, "--version"); err == nil {
		status.ToolVersion = strings.TrimSpace(out)
	} else {
		m.logger.Debug(ctx, "yt-dlp check failed: %v", err)
	}

	if _, err := m.executor.Execute(ctx, m.ffmpeg, "-version"); err == nil {
		status.FFmpegAvailable = true
	} else {
		m.logger.Debug(ctx, "ffmpeg check failed: %v", err)
	}

	return status
}
