// Package transcription turns an uploaded recording into one ordered
// transcript: normalize, compress or segment, transcribe each segment,
// reassemble by index.
package transcription

import (
	"context"
	"io"
)

// Upload is an audio file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Service runs transcription jobs. Each call owns an isolated temp
// directory, so calls may run concurrently.
type Service interface {
	// Transcribe validates and transcribes an uploaded file.
	Transcribe(ctx context.Context, up Upload) (string, error)
	// TranscribeFile transcribes a file already on disk.
	TranscribeFile(ctx context.Context, path string) (string, error)
	// HandleInboxFile transcribes a dropped file and archives it.
	HandleInboxFile(ctx context.Context, path string) error
}

// Normalizer converts any supported container into mono PCM WAV.
type Normalizer interface {
	Normalize(ctx context.Context, src, dst string) error
}
