package config

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid openai config",
			config: Config{
				OpenAI: OpenAIConfig{APIKey: "sk-test"},
			},
			wantErr: false,
		},
		{
			name:    "missing openai key",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "gemini without keys",
			config: Config{
				Transcription: TranscriptionConfig{Provider: ProviderGemini},
				LLM:           LLMConfig{Provider: ProviderGemini},
			},
			wantErr: true,
		},
		{
			name: "gemini with keys",
			config: Config{
				Transcription: TranscriptionConfig{Provider: ProviderGemini},
				LLM:           LLMConfig{Provider: ProviderGemini},
				Gemini:        GeminiConfig{APIKeys: []string{"k1"}},
			},
			wantErr: false,
		},
		{
			name: "gemini budget over inline limit",
			config: Config{
				Audio:         AudioConfig{ByteBudget: DefaultByteBudget},
				Transcription: TranscriptionConfig{Provider: ProviderGemini},
				OpenAI:        OpenAIConfig{APIKey: "sk-test"},
				Gemini:        GeminiConfig{APIKeys: []string{"k1"}},
			},
			wantErr: true,
		},
		{
			name: "whisper missing model",
			config: Config{
				Transcription: TranscriptionConfig{Provider: ProviderWhisper, WhisperBinary: "./whisper"},
				OpenAI:        OpenAIConfig{APIKey: "sk-test"},
			},
			wantErr: true,
		},
		{
			name: "unknown segment policy",
			config: Config{
				Audio:  AudioConfig{SegmentPolicy: "random"},
				OpenAI: OpenAIConfig{APIKey: "sk-test"},
			},
			wantErr: true,
		},
		{
			name: "unknown llm provider",
			config: Config{
				LLM:    LLMConfig{Provider: "claude"},
				OpenAI: OpenAIConfig{APIKey: "sk-test"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{OpenAI: OpenAIConfig{APIKey: "sk-test"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Audio.ByteBudget != DefaultByteBudget {
		t.Errorf("ByteBudget = %d, want %d", cfg.Audio.ByteBudget, DefaultByteBudget)
	}
	if cfg.Audio.MaxAttempts != 10 {
		t.Errorf("MaxAttempts = %d, want 10", cfg.Audio.MaxAttempts)
	}
	if cfg.Summary.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", cfg.Summary.MaxTokens)
	}
	if cfg.LLM.ChunkModel != "gpt-4" || cfg.LLM.FinalModel != "gpt-4o" {
		t.Errorf("models = %s/%s, want gpt-4/gpt-4o", cfg.LLM.ChunkModel, cfg.LLM.FinalModel)
	}
	if cfg.Transcription.Model != "whisper-1" {
		t.Errorf("Transcription.Model = %s, want whisper-1", cfg.Transcription.Model)
	}
	if cfg.Server.Prefix != "/api" {
		t.Errorf("Prefix = %s, want /api", cfg.Server.Prefix)
	}
	if cfg.Resilience.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Resilience.MaxRetries)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
server:
  addr: ":9000"
  environment: "dev"

audio:
  codec: "mp3"
  byte_budget: 1048576
  segment_policy: "uniform"

transcription:
  provider: "whisper"
  whisper_binary: "./whisper-cli"
  whisper_model: "models/ggml-base.en.bin"
  call_timeout: "90s"

llm:
  provider: "gemini"

gemini:
  api_keys: ["k1", "k2"]

paths:
  temp: "data/tmp"

logging:
  level: "debug"
  format: "json"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %v, want %v", cfg.Server.Addr, ":9000")
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true")
	}
	if cfg.Audio.ByteBudget != 1048576 {
		t.Errorf("ByteBudget = %v, want %v", cfg.Audio.ByteBudget, 1048576)
	}
	if cfg.Transcription.CallTimeout != 90*time.Second {
		t.Errorf("CallTimeout = %v, want 90s", cfg.Transcription.CallTimeout)
	}
	if len(cfg.Gemini.APIKeys) != 2 {
		t.Errorf("APIKeys = %v, want 2 keys", cfg.Gemini.APIKeys)
	}
	if cfg.LLM.ChunkModel != "gemini-2.5-flash" {
		t.Errorf("ChunkModel = %v, want gemini-2.5-flash", cfg.LLM.ChunkModel)
	}
}

func TestGeminiByteBudgetDefault(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     int64
	}{
		{"openai keeps upload ceiling", ProviderOpenAI, DefaultByteBudget},
		{"whisper keeps upload ceiling", ProviderWhisper, DefaultByteBudget},
		{"gemini uses inline limit", ProviderGemini, GeminiInlineByteBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Transcription: TranscriptionConfig{
					Provider:      tt.provider,
					WhisperBinary: "./whisper-cli",
					WhisperModel:  "model.bin",
				},
				OpenAI: OpenAIConfig{APIKey: "sk-test"},
				Gemini: GeminiConfig{APIKeys: []string{"k1"}},
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if cfg.Audio.ByteBudget != tt.want {
				t.Errorf("ByteBudget = %d, want %d", cfg.Audio.ByteBudget, tt.want)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("MEETSCRIBE_AUDIO_BYTE_BUDGET", "2048")
	t.Setenv("MEETSCRIBE_TRANSCRIPTION_MAX_CONCURRENT", "3")
	t.Setenv("ENVIRONMENT", "dev")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want %q", cfg.OpenAI.APIKey, "sk-from-env")
	}
	if cfg.Audio.ByteBudget != 2048 {
		t.Errorf("ByteBudget = %d, want 2048", cfg.Audio.ByteBudget)
	}
	if cfg.Transcription.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", cfg.Transcription.MaxConcurrent)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
