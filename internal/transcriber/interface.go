package transcriber

import "context"

// Transcriber turns an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
	// Provider names the speech backend for usage accounting.
	Provider() string
}
