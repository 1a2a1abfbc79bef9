// Package llm provides the chat completion capability behind summarization.
package llm

import "context"

// Request is a single-turn completion with a system instruction.
type Request struct {
	Model  string
	System string
	Prompt string
}

// Model completes prompts. Implementations are safe for concurrent use.
type Model interface {
	Complete(ctx context.Context, req Request) (string, error)
}
