// Package stt provides the speech-to-text capability used per segment.
package stt

import "context"

// Transcriber converts one audio file into plain text. Implementations are
// safe for concurrent use.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Name() string
}
