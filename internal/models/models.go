package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoInfo is the metadata of one source video. Description is capped at
// 500 characters; UploadDate is "YYYY-MM-DD".
type VideoInfo struct {
	Title       string  `json:"title"`
	Channel     string  `json:"channel"`
	Duration    uint64  `json:"duration"`
	URL         string  `json:"url"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
	Description *string `json:"description,omitempty"`
	UploadDate  *string `json:"upload_date,omitempty"`
}

type SummaryResult struct {
	Summary      string  `json:"summary"`
	InputTokens  uint32  `json:"input_tokens"`
	OutputTokens uint32  `json:"output_tokens"`
	TotalTokens  uint32  `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// NewSummaryResult fills TotalTokens from the input and output counts.
func NewSummaryResult(summary string, input, output uint32, cost float64) SummaryResult {
	return SummaryResult{
		Summary:      summary,
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
		CostUSD:      cost,
	}
}

// ProcessResult is the terminal artifact of one pipeline run.
type ProcessResult struct {
	VideoInfo            VideoInfo `json:"video_info"`
	Transcript           string    `json:"transcript"`
	Summary              string    `json:"summary"`
	TokensUsed           uint32    `json:"tokens_used"`
	AudioDurationSeconds float32   `json:"audio_duration_seconds"`
	CostEstimate         float64   `json:"cost_estimate"`

	Language  string `json:"language,omitempty"`
	AudioPath string `json:"audio_path,omitempty"`
	SavedPath string `json:"saved_path,omitempty"`
	PageURL   string `json:"page_url,omitempty"`
}

// UsageEntry is one accounting record of a completed run.
type UsageEntry struct {
	ID                    string  `json:"id"`
	Timestamp             string  `json:"timestamp"`
	VideoTitle            string  `json:"video_title"`
	VideoURL              string  `json:"video_url"`
	TranscriptionProvider string  `json:"transcription_provider"`
	SummaryProvider       string  `json:"summary_provider"`
	AudioDurationSeconds  float32 `json:"audio_duration_seconds"`
	TokensUsed            uint32  `json:"tokens_used"`
	CostUSD               float64 `json:"cost_usd"`
}

// NewUsageEntry derives the accounting record for a finished run.
func NewUsageEntry(res *ProcessResult, transcriptionProvider, summaryProvider string, now time.Time) UsageEntry {
	return UsageEntry{
		ID:                    uuid.New().String(),
		Timestamp:             now.UTC().Format(time.RFC3339),
		VideoTitle:            res.VideoInfo.Title,
		VideoURL:              res.VideoInfo.URL,
		TranscriptionProvider: transcriptionProvider,
		SummaryProvider:       summaryProvider,
		AudioDurationSeconds:  res.AudioDurationSeconds,
		TokensUsed:            res.TokensUsed,
		CostUSD:               res.CostEstimate,
	}
}
