package media

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"github.com/nguyentantai21042004/bibliosophia/pkg/executor"
)

const (
	maxDescription = 500

	msgToolMissing = "yt-dlp no está instalado. Consulta SETUP.md para instrucciones."
)

// ytdlpInfo is the subset of `yt-dlp --dump-json` output we read.
type ytdlpInfo struct {
	Title       *string  `json:"title"`
	Uploader    *string  `json:"uploader"`
	Channel     *string  `json:"channel"`
	Duration    *float64 `json:"duration"`
	Thumbnail   *string  `json:"thumbnail"`
	Description *string  `json:"description"`
	UploadDate  *string  `json:"upload_date"`
}

// FetchInfo runs yt-dlp --dump-json for url
func (m *implMedia) FetchInfo(ctx context.Context, url string) (models.VideoInfo, error) {
	m.logger.Info(ctx, "Fetching metadata: %s", url)

	out, err := m.executor.Execute(ctx, m.binary, "--dump-json", "--no-playlist", url)
	if err != nil {
		return models.VideoInfo{}, classifyToolError(err, "Error ejecutando yt-dlp: %v")
	}

	var raw ytdlpInfo
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return models.VideoInfo{}, apperror.Wrap(apperror.ParseFailure, err, "Error parseando metadata: %v", err)
	}

	info := raw.toVideoInfo(url)
	m.logger.Debug(ctx, "Metadata: %q by %s (%ds)", info.Title, info.Channel, info.Duration)
	return info, nil
}

func (r ytdlpInfo) toVideoInfo(url string) models.VideoInfo {
	info := models.VideoInfo{
		Title:     "Sin título",
		Channel:   "Desconocido",
		URL:       url,
		Thumbnail: r.Thumbnail,
	}

	if r.Title != nil {
		info.Title = *r.Title
	}
	switch {
	case r.Uploader != nil:
		info.Channel = *r.Uploader
	case r.Channel != nil:
		info.Channel = *r.Channel
	}
	if r.Duration != nil && *r.Duration > 0 {
		info.Duration = uint64(*r.Duration)
	}
	if r.Description != nil {
		desc := truncateRunes(*r.Description, maxDescription)
		info.Description = &desc
	}
	if r.UploadDate != nil && len(*r.UploadDate) == 8 {
		d := *r.UploadDate
		iso := d[:4] + "-" + d[4:6] + "-" + d[6:]
		info.UploadDate = &iso
	}

	return info
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// classifyToolError maps an executor failure. A missing binary is
// ToolMissing; a failed command is ToolFailure carrying stderr.
func classifyToolError(err error, fallbackFormat string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return apperror.Wrap(apperror.ToolMissing, err, msgToolMissing)
	}

	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) {
		return apperror.Wrap(apperror.ToolFailure, err, "yt-dlp falló: %s", cmdErr.Stderr)
	}

	return apperror.Wrap(apperror.ToolFailure, err, fallbackFormat, err)
}
