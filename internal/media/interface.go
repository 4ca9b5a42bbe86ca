package media

import "context"

// Extractor demuxes the audio track of a video file into a temporary WAV
// file suitable for transcription. The caller owns the returned path and
// must remove it on every exit path.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}
