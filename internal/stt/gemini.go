package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meetscribe/internal/clients"
	"github.com/nguyentantai21042004/meetscribe/internal/config"
)

const geminiPrompt = `Transcribe the speech in this audio verbatim.
Return only the transcript text, without timestamps, speaker labels or commentary.`

var mimeTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",
}

type geminiTranscriber struct {
	client   *clients.Gemini
	model    string
	language string
}

func (t *geminiTranscriber) Name() string { return "gemini:" + t.model }

func (t *geminiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	mime, ok := mimeTypes[strings.ToLower(filepath.Ext(audioPath))]
	if !ok {
		return "", fmt.Errorf("unsupported audio file %s", filepath.Base(audioPath))
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() > config.GeminiInlineByteBudget {
		return "", fmt.Errorf("audio file %s is %d bytes, gemini inline limit is %d bytes",
			filepath.Base(audioPath), info.Size(), config.GeminiInlineByteBudget)
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	prompt := geminiPrompt
	if t.language != "" {
		prompt += "\nThe spoken language is " + t.language + "."
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, mime),
		}, genai.RoleUser),
	}
	return t.client.GenerateContent(ctx, t.model, contents, nil)
}
