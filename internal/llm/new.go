package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meetscribe/internal/clients"
	"github.com/nguyentantai21042004/meetscribe/internal/config"
)

// New builds the Model selected by llm.provider.
func New(cfg *config.Config, oa *clients.OpenAI, gem *clients.Gemini) (Model, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return &openAIModel{client: oa}, nil
	case config.ProviderGemini:
		return &geminiModel{client: gem}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

type openAIModel struct {
	client *clients.OpenAI
}

func (m *openAIModel) Complete(ctx context.Context, req Request) (string, error) {
	var msgs []clients.Message
	if req.System != "" {
		msgs = append(msgs, clients.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, clients.Message{Role: "user", Content: req.Prompt})
	return m.client.ChatCompletion(ctx, req.Model, msgs)
}

type geminiModel struct {
	client *clients.Gemini
}

func (m *geminiModel) Complete(ctx context.Context, req Request) (string, error) {
	var cfg *genai.GenerateContentConfig
	if req.System != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		}
	}
	return m.client.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
}
