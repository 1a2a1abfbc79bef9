package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. MEETSCRIBE_AUDIO_BYTE_BUDGET.
const EnvPrefix = "MEETSCRIBE"

// Load reads the YAML file at path, applies environment overrides and validates
// the result. An empty path skips the file and relies on defaults plus env.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg, newEnv())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names kept for deployments configured for the previous backend.
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY", EnvPrefix+"_OPENAI_API_KEY")
	_ = v.BindEnv("gemini.api_keys", "GEMINI_API_KEYS", EnvPrefix+"_GEMINI_API_KEYS")
	_ = v.BindEnv("server.environment", "ENVIRONMENT", EnvPrefix+"_SERVER_ENVIRONMENT")
	return v
}

func applyEnv(cfg *Config, v *viper.Viper) {
	overrideString(v, "server.addr", &cfg.Server.Addr)
	overrideString(v, "server.environment", &cfg.Server.Environment)
	overrideString(v, "server.frontend_url", &cfg.Server.FrontendURL)

	overrideString(v, "audio.ffmpeg_path", &cfg.Audio.FFmpegPath)
	overrideString(v, "audio.codec", &cfg.Audio.Codec)
	overrideString(v, "audio.segment_policy", &cfg.Audio.SegmentPolicy)
	if v.IsSet("audio.byte_budget") {
		cfg.Audio.ByteBudget = v.GetInt64("audio.byte_budget")
	}

	overrideString(v, "transcription.provider", &cfg.Transcription.Provider)
	overrideString(v, "transcription.model", &cfg.Transcription.Model)
	if v.IsSet("transcription.max_concurrent") {
		cfg.Transcription.MaxConcurrent = v.GetInt("transcription.max_concurrent")
	}
	if v.IsSet("transcription.call_timeout") {
		cfg.Transcription.CallTimeout = v.GetDuration("transcription.call_timeout")
	}

	overrideString(v, "llm.provider", &cfg.LLM.Provider)
	overrideString(v, "llm.chunk_model", &cfg.LLM.ChunkModel)
	overrideString(v, "llm.final_model", &cfg.LLM.FinalModel)

	overrideString(v, "openai.api_key", &cfg.OpenAI.APIKey)
	overrideString(v, "openai.base_url", &cfg.OpenAI.BaseURL)
	if raw := strings.TrimSpace(v.GetString("gemini.api_keys")); raw != "" {
		cfg.Gemini.APIKeys = splitList(raw)
	}

	overrideString(v, "paths.temp", &cfg.Paths.Temp)
	overrideString(v, "paths.record", &cfg.Paths.Record)
	overrideString(v, "paths.inbox", &cfg.Paths.Inbox)
	overrideString(v, "logging.level", &cfg.Logging.Level)
	overrideString(v, "logging.format", &cfg.Logging.Format)
}

func overrideString(v *viper.Viper, key string, target *string) {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		*target = value
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
