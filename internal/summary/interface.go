// Package summary turns a transcript into a structured meeting summary with
// a chunked map-then-reduce pass over a language model.
package summary

import "context"

// Result is the summary along with the transcript it was built from.
type Result struct {
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
}

// Service summarizes transcripts.
type Service interface {
	// Summarize summarizes transcript, or the stored record when it is blank.
	Summarize(ctx context.Context, transcript string) (*Result, error)
	// Export renders a markdown summary into a .docx document.
	Export(ctx context.Context, title string, res *Result) ([]byte, error)
}
