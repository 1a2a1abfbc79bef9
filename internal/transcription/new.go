package transcription

import (
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/audio"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
	"github.com/nguyentantai21042004/meetscribe/internal/resilience"
	"github.com/nguyentantai21042004/meetscribe/internal/stt"
	"github.com/nguyentantai21042004/meetscribe/internal/telemetry"
)

// Options tune a Service.
type Options struct {
	TempDir       string
	ArchiveDir    string
	Codec         string
	ByteBudget    int64
	MaxAttempts   int
	Policy        audio.Policy
	Silence       audio.SilenceOptions
	MaxConcurrent int
	CallTimeout   time.Duration
	Retry         resilience.RetryConfig
}

// Deps are the collaborators of a Service.
type Deps struct {
	Normalizer  Normalizer
	Encoder     audio.Encoder
	Transcriber stt.Transcriber
	Store       record.Store
	Recorder    *telemetry.Recorder
	Logger      logger.Logger
}

type implService struct {
	opts       Options
	normalizer Normalizer
	compressor *audio.Compressor
	segmenter  *audio.Segmenter
	stt        stt.Transcriber
	store      record.Store
	recorder   *telemetry.Recorder
	logger     logger.Logger
}

// New creates a Service. MaxConcurrent defaults to 1 (sequential dispatch).
func New(opts Options, d Deps) Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Minute
	}
	if opts.Codec == "" {
		opts.Codec = "mp3"
	}
	if opts.Retry.Logger == nil {
		opts.Retry.Logger = d.Logger
	}

	return &implService{
		opts:       opts,
		normalizer: d.Normalizer,
		compressor: audio.NewCompressor(d.Encoder, audio.CompressorOptions{
			Codec:       opts.Codec,
			ByteBudget:  opts.ByteBudget,
			MaxAttempts: opts.MaxAttempts,
		}, d.Logger),
		segmenter: audio.NewSegmenter(audio.SegmenterOptions{
			Policy:     opts.Policy,
			ByteBudget: opts.ByteBudget,
			Silence:    opts.Silence,
		}),
		stt:      d.Transcriber,
		store:    d.Store,
		recorder: d.Recorder,
		logger:   d.Logger,
	}
}
