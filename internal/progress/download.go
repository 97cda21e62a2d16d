package progress

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	downloadMarker = "[download]"
	extractMarker  = "[ExtractAudio]"
	extractPercent = 95.0
)

// ParseDownloadPercent returns the number immediately preceding the first
// '%' in line, delimited on the left by a space or '['.
func ParseDownloadPercent(line string) (float64, bool) {
	trimmed := strings.TrimSpace(line)
	pos := strings.IndexByte(trimmed, '%')
	if pos < 0 {
		return 0, false
	}
	before := trimmed[:pos]
	start := strings.LastIndexAny(before, " [") + 1
	pct, err := strconv.ParseFloat(before[start:], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// ParseDownloadLine turns one line of yt-dlp output into a download event.
// Lines that are not progress markers yield false.
func ParseDownloadLine(line string) (Event, bool) {
	switch {
	case strings.Contains(line, downloadMarker) && strings.Contains(line, "%"):
		pct, ok := ParseDownloadPercent(line)
		if !ok {
			return Event{}, false
		}
		return Event{
			Stage:   StageDownload,
			Message: fmt.Sprintf("Descargando audio... %.0f%%", pct),
			Percent: Pct(pct),
		}, true
	case strings.Contains(line, extractMarker):
		return Event{
			Stage:   StageDownload,
			Message: "Convirtiendo a MP3...",
			Percent: Pct(extractPercent),
		}, true
	}
	return Event{}, false
}
