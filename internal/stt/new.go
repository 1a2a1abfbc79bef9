package stt

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meetscribe/internal/clients"
	"github.com/nguyentantai21042004/meetscribe/internal/config"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/pkg/executor"
)

// New builds the Transcriber selected by transcription.provider.
func New(cfg *config.Config, oa *clients.OpenAI, gem *clients.Gemini, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	t := cfg.Transcription
	switch t.Provider {
	case config.ProviderOpenAI:
		return &openAITranscriber{client: oa, model: t.Model, language: t.Language}, nil
	case config.ProviderGemini:
		return &geminiTranscriber{client: gem, model: t.Model, language: t.Language}, nil
	case config.ProviderWhisper:
		// whisper runs inside each job directory
		binary, err := absPath(t.WhisperBinary)
		if err != nil {
			return nil, err
		}
		model, err := absPath(t.WhisperModel)
		if err != nil {
			return nil, err
		}
		return &whisperTranscriber{
			executor:  exec,
			logger:    log,
			binary:    binary,
			modelPath: model,
			language:  t.Language,
			threads:   t.Threads,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", t.Provider)
	}
}

// absPath anchors a relative path to the working directory. Bare names such as
// "whisper-cli" are left for PATH lookup.
func absPath(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) || !strings.ContainsRune(p, filepath.Separator) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}
