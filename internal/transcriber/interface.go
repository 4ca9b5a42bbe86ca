package transcriber

import "context"

// Transcriber converts an audio file into a plain text transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
