package config

import (
	"fmt"
	"time"
)

const (
	// DefaultByteBudget is the speech-to-text upload ceiling (25 MiB).
	DefaultByteBudget = 26214400
	// GeminiInlineByteBudget keeps an inline audio part under Gemini's 20 MB
	// request limit once base64 encoded.
	GeminiInlineByteBudget = 14 << 20

	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderWhisper = "whisper"

	PolicyUniform    = "uniform"
	PolicyFixedBytes = "fixed_bytes"
	PolicySilence    = "silence"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Audio         AudioConfig         `yaml:"audio"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	LLM           LLMConfig           `yaml:"llm"`
	Summary       SummaryConfig       `yaml:"summary"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Paths         PathsConfig         `yaml:"paths"`
	Logging       LoggingConfig       `yaml:"logging"`
	Resilience    ResilienceConfig    `yaml:"resilience"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	Prefix      string `yaml:"prefix"`
	Environment string `yaml:"environment"`
	FrontendURL string `yaml:"frontend_url"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type AudioConfig struct {
	FFmpegPath      string  `yaml:"ffmpeg_path"`
	Codec           string  `yaml:"codec"`
	ByteBudget      int64   `yaml:"byte_budget"`
	MaxAttempts     int     `yaml:"max_attempts"`
	SegmentPolicy   string  `yaml:"segment_policy"`
	MinSilenceMs    int     `yaml:"min_silence_ms"`
	SilenceThreshDB float64 `yaml:"silence_thresh_db"`
}

type TranscriptionConfig struct {
	Provider      string        `yaml:"provider"`
	Model         string        `yaml:"model"`
	Language      string        `yaml:"language"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	CallTimeout   time.Duration `yaml:"call_timeout"`
	WhisperBinary string        `yaml:"whisper_binary"`
	WhisperModel  string        `yaml:"whisper_model"`
	Threads       int           `yaml:"threads"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	ChunkModel  string        `yaml:"chunk_model"`
	FinalModel  string        `yaml:"final_model"`
	CallTimeout time.Duration `yaml:"call_timeout"`
}

type SummaryConfig struct {
	MaxTokens     int    `yaml:"max_tokens"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	Context       string `yaml:"context"`
	SamplePath    string `yaml:"sample_path"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type PathsConfig struct {
	Temp     string `yaml:"temp"`
	Record   string `yaml:"record"`
	Inbox    string `yaml:"inbox"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ResilienceConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

// IsDev reports whether the server runs with the permissive dev CORS policy.
func (c *Config) IsDev() bool {
	return c.Server.Environment == "dev"
}

func (c *Config) Validate() error {
	c.applyDefaults()

	switch c.Transcription.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for transcription provider %q", c.Transcription.Provider)
		}
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required for transcription provider %q", c.Transcription.Provider)
		}
	case ProviderWhisper:
		if c.Transcription.WhisperBinary == "" {
			return fmt.Errorf("transcription.whisper_binary is required")
		}
		if c.Transcription.WhisperModel == "" {
			return fmt.Errorf("transcription.whisper_model is required")
		}
	default:
		return fmt.Errorf("transcription.provider %q is not supported", c.Transcription.Provider)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for llm provider %q", c.LLM.Provider)
		}
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required for llm provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}

	switch c.Audio.SegmentPolicy {
	case PolicyUniform, PolicyFixedBytes, PolicySilence:
	default:
		return fmt.Errorf("audio.segment_policy %q is not supported", c.Audio.SegmentPolicy)
	}

	if c.Audio.ByteBudget < 0 {
		return fmt.Errorf("audio.byte_budget must be positive, got %d", c.Audio.ByteBudget)
	}
	if c.Transcription.Provider == ProviderGemini && c.Audio.ByteBudget > GeminiInlineByteBudget {
		return fmt.Errorf("audio.byte_budget %d exceeds the gemini inline limit of %d bytes",
			c.Audio.ByteBudget, GeminiInlineByteBudget)
	}
	if c.Resilience.MaxRetries < 0 {
		return fmt.Errorf("resilience.max_retries must be >= 0, got %d", c.Resilience.MaxRetries)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.Prefix == "" {
		c.Server.Prefix = "/api"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "production"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}

	if c.Audio.FFmpegPath == "" {
		c.Audio.FFmpegPath = "ffmpeg"
	}
	if c.Audio.Codec == "" {
		c.Audio.Codec = "mp3"
	}
	if c.Audio.MaxAttempts == 0 {
		c.Audio.MaxAttempts = 10
	}
	if c.Audio.SegmentPolicy == "" {
		c.Audio.SegmentPolicy = PolicySilence
	}
	if c.Audio.MinSilenceMs == 0 {
		c.Audio.MinSilenceMs = 500
	}
	if c.Audio.SilenceThreshDB == 0 {
		c.Audio.SilenceThreshDB = -40
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = ProviderOpenAI
	}
	if c.Audio.ByteBudget == 0 {
		c.Audio.ByteBudget = DefaultByteBudget
		if c.Transcription.Provider == ProviderGemini {
			c.Audio.ByteBudget = GeminiInlineByteBudget
		}
	}
	if c.Transcription.Model == "" {
		switch c.Transcription.Provider {
		case ProviderGemini:
			c.Transcription.Model = "gemini-2.5-flash"
		default:
			c.Transcription.Model = "whisper-1"
		}
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "en"
	}
	if c.Transcription.MaxConcurrent == 0 {
		c.Transcription.MaxConcurrent = 1
	}
	if c.Transcription.CallTimeout == 0 {
		c.Transcription.CallTimeout = 10 * time.Minute
	}
	if c.Transcription.Threads == 0 {
		c.Transcription.Threads = 8
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.ChunkModel == "" || c.LLM.FinalModel == "" {
		chunk, final := "gpt-4", "gpt-4o"
		if c.LLM.Provider == ProviderGemini {
			chunk, final = "gemini-2.5-flash", "gemini-2.5-flash"
		}
		if c.LLM.ChunkModel == "" {
			c.LLM.ChunkModel = chunk
		}
		if c.LLM.FinalModel == "" {
			c.LLM.FinalModel = final
		}
	}
	if c.LLM.CallTimeout == 0 {
		c.LLM.CallTimeout = 5 * time.Minute
	}

	if c.Summary.MaxTokens == 0 {
		c.Summary.MaxTokens = 2000
	}
	if c.Summary.MaxConcurrent == 0 {
		c.Summary.MaxConcurrent = 4
	}

	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Record == "" {
		c.Paths.Record = "transcription.txt"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Resilience.BaseDelay == 0 {
		c.Resilience.BaseDelay = time.Second
	}
	if c.Resilience.MaxDelay == 0 {
		c.Resilience.MaxDelay = 30 * time.Second
	}
}
