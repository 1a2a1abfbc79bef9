package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/audio"
	"github.com/nguyentantai21042004/meetscribe/internal/clients"
	"github.com/nguyentantai21042004/meetscribe/internal/config"
	"github.com/nguyentantai21042004/meetscribe/internal/llm"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
	"github.com/nguyentantai21042004/meetscribe/internal/resilience"
	"github.com/nguyentantai21042004/meetscribe/internal/stt"
	"github.com/nguyentantai21042004/meetscribe/internal/summary"
	"github.com/nguyentantai21042004/meetscribe/internal/telemetry"
	"github.com/nguyentantai21042004/meetscribe/internal/transcription"
	"github.com/nguyentantai21042004/meetscribe/pkg/executor"
)

// app holds every long-lived component, built once at startup.
type app struct {
	cfg           *config.Config
	logger        logger.Logger
	recorder      *telemetry.Recorder
	store         *record.FileStore
	transcription transcription.Service
	summary       summary.Service
}

// loadConfig reads path; a missing default config falls back to env only.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		path = ""
	}
	return config.Load(path)
}

func newApp(cfg *config.Config) (*app, error) {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	store, err := record.NewFileStore(cfg.Paths.Record)
	if err != nil {
		return nil, err
	}

	exec := executor.New()
	ffmpeg := audio.NewFFmpeg(cfg.Audio.FFmpegPath, exec, log)
	httpClient := clients.NewHTTP(max(cfg.Transcription.CallTimeout, cfg.LLM.CallTimeout) + time.Minute)
	openAI := clients.NewOpenAI(httpClient, cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey)
	gemini := clients.NewGemini(cfg.Gemini.APIKeys, log)

	transcriber, err := stt.New(cfg, openAI, gemini, exec, log)
	if err != nil {
		return nil, err
	}
	model, err := llm.New(cfg, openAI, gemini)
	if err != nil {
		return nil, err
	}

	sample, err := readSample(cfg.Summary.SamplePath)
	if err != nil {
		return nil, err
	}

	retry := resilience.RetryConfig{
		MaxRetries: cfg.Resilience.MaxRetries,
		BaseDelay:  cfg.Resilience.BaseDelay,
		MaxDelay:   cfg.Resilience.MaxDelay,
		Logger:     log,
	}
	recorder := telemetry.NewRecorder()

	trans := transcription.New(transcription.Options{
		TempDir:     cfg.Paths.Temp,
		ArchiveDir:  cfg.Paths.Archived,
		Codec:       cfg.Audio.Codec,
		ByteBudget:  cfg.Audio.ByteBudget,
		MaxAttempts: cfg.Audio.MaxAttempts,
		Policy:      audio.Policy(cfg.Audio.SegmentPolicy),
		Silence: audio.SilenceOptions{
			MinSilence:  time.Duration(cfg.Audio.MinSilenceMs) * time.Millisecond,
			ThresholdDB: cfg.Audio.SilenceThreshDB,
		},
		MaxConcurrent: cfg.Transcription.MaxConcurrent,
		CallTimeout:   cfg.Transcription.CallTimeout,
		Retry:         retry,
	}, transcription.Deps{
		Normalizer:  ffmpeg,
		Encoder:     ffmpeg,
		Transcriber: transcriber,
		Store:       store,
		Recorder:    recorder,
		Logger:      log,
	})

	sum := summary.New(model, store, summary.Options{
		MaxTokens: cfg.Summary.MaxTokens,
		TempDir:   cfg.Paths.Temp,
		Reducer: summary.ReducerOptions{
			ChunkModel:    cfg.LLM.ChunkModel,
			FinalModel:    cfg.LLM.FinalModel,
			MaxConcurrent: cfg.Summary.MaxConcurrent,
			CallTimeout:   cfg.LLM.CallTimeout,
			Context:       cfg.Summary.Context,
			Sample:        sample,
			Retry:         retry,
		},
	}, recorder, log)

	log.Info(context.Background(), "Providers: transcription=%s, llm=%s (%s / %s)",
		transcriber.Name(), cfg.LLM.Provider, cfg.LLM.ChunkModel, cfg.LLM.FinalModel)

	return &app{
		cfg:           cfg,
		logger:        log,
		recorder:      recorder,
		store:         store,
		transcription: trans,
		summary:       sum,
	}, nil
}

func readSample(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read sample summary: %w", err)
	}
	return string(data), nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Temp, cfg.Paths.Archived}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
