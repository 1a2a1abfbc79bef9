package summary

import (
	"github.com/nguyentantai21042004/meetscribe/internal/llm"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
	"github.com/nguyentantai21042004/meetscribe/internal/telemetry"
)

type implService struct {
	reducer   *Reducer
	store     record.Store
	maxTokens int
	tempDir   string
	recorder  *telemetry.Recorder
	logger    logger.Logger
}

// Options tune a Service.
type Options struct {
	MaxTokens int
	TempDir   string
	Reducer   ReducerOptions
}

// New creates a summary Service. MaxTokens defaults to 2000.
func New(model llm.Model, store record.Store, opts Options, rec *telemetry.Recorder, log logger.Logger) Service {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2000
	}
	return &implService{
		reducer:   NewReducer(model, opts.Reducer, rec, log),
		store:     store,
		maxTokens: opts.MaxTokens,
		tempDir:   opts.TempDir,
		recorder:  rec,
		logger:    log,
	}
}
