package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// OpenAI talks to the OpenAI REST API (or any compatible endpoint).
type OpenAI struct {
	http    *HTTP
	baseURL string
	apiKey  string
}

// NewOpenAI creates an OpenAI client for baseURL (e.g. https://api.openai.com/v1).
func NewOpenAI(h *HTTP, baseURL, apiKey string) *OpenAI {
	return &OpenAI{http: h, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Transcribe uploads an audio file and returns the plain-text transcript.
func (o *OpenAI) Transcribe(ctx context.Context, model, language, audioPath string) (string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return "", err
	}
	fields := map[string]string{
		"model":           model,
		"response_format": "text",
	}
	if language != "" {
		fields["language"] = language
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err = w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", &b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	body, err := o.do(req, "openai transcription")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ChatCompletion runs one chat completion and returns the first choice.
func (o *OpenAI) ChatCompletion(ctx context.Context, model string, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	body, err := o.do(req, "openai chat")
	if err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openai chat decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

func (o *OpenAI) do(req *http.Request, service string) ([]byte, error) {
	resp, err := o.http.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Service: service, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
