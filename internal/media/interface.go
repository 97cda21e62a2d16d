package media

import (
	"context"

	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
)

// Media drives the external media tool.
type Media interface {
	// FetchInfo reads the metadata of a single video.
	FetchInfo(ctx context.Context, url string) (models.VideoInfo, error)
	// DownloadAudio extracts the audio track as mp3 into a fresh temporary
	// directory and returns the file path. Progress markers found in the
	// tool output are passed to report.
	DownloadAudio(ctx context.Context, url string, report func(progress.Event)) (string, error)
	// CheckDeps reports the availability of the media tool and ffmpeg.
	CheckDeps(ctx context.Context) DepsStatus
}

// DepsStatus is the result of a dependency check. ToolVersion is empty when
// the media tool is unavailable.
type DepsStatus struct {
	ToolVersion     string
	FFmpegAvailable bool
}
