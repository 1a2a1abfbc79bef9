package stt

import (
	"context"

	"github.com/nguyentantai21042004/meetscribe/internal/clients"
)

type openAITranscriber struct {
	client   *clients.OpenAI
	model    string
	language string
}

func (t *openAITranscriber) Name() string { return "openai:" + t.model }

func (t *openAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return t.client.Transcribe(ctx, t.model, t.language, audioPath)
}
