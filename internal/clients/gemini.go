package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
)

// ErrNoAPIKeys is returned when a Gemini client has no keys configured.
var ErrNoAPIKeys = errors.New("no Gemini API keys configured")

// Gemini calls the Gemini API, rotating through API keys on rate limits.
// Safe for concurrent use.
type Gemini struct {
	keys   []string
	logger logger.Logger

	mu      sync.Mutex
	current int
	clients map[string]*genai.Client
}

// NewGemini creates a Gemini client over the supplied keys.
func NewGemini(keys []string, log logger.Logger) *Gemini {
	return &Gemini{
		keys:    keys,
		logger:  log,
		clients: make(map[string]*genai.Client),
	}
}

// GenerateContent runs one generation and returns the concatenated text parts.
func (g *Gemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	if len(g.keys) == 0 {
		return "", ErrNoAPIKeys
	}

	var lastErr error
	for range len(g.keys) {
		idx, client, err := g.client(ctx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotate(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				g.rotate(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				text.WriteString(part.Text)
			}
			return text.String(), nil
		}
		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", &rateLimitError{err: fmt.Errorf("all API keys exhausted: %w", lastErr)}
}

// client returns the cached client for the current key.
func (g *Gemini) client(ctx context.Context) (int, *genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.current
	key := g.keys[idx]
	if c, ok := g.clients[key]; ok {
		return idx, c, nil
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return idx, nil, err
	}
	g.clients[key] = c
	return idx, c, nil
}

// rotate advances past idx unless another caller already did.
func (g *Gemini) rotate(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == idx {
		g.current = (g.current + 1) % len(g.keys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// rateLimitError marks key exhaustion as retryable.
type rateLimitError struct{ err error }

func (e *rateLimitError) Error() string   { return e.err.Error() }
func (e *rateLimitError) Unwrap() error   { return e.err }
func (e *rateLimitError) Transient() bool { return true }
