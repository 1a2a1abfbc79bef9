package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
)

const (
	StartBitrateKbps = 64
	MinBitrateKbps   = 32
	StartSampleRate  = 16000
	MinSampleRate    = 8000
)

// Settings are the encoder parameters for one compression attempt.
type Settings struct {
	BitrateKbps int
	SampleRate  int
}

// InitialSettings is the first attempt of every compression run.
func InitialSettings() Settings {
	return Settings{BitrateKbps: StartBitrateKbps, SampleRate: StartSampleRate}
}

// Next halves both dimensions, each clamped to its own floor.
func (s Settings) Next() Settings {
	return Settings{
		BitrateKbps: max(s.BitrateKbps/2, MinBitrateKbps),
		SampleRate:  max(s.SampleRate/2, MinSampleRate),
	}
}

// Encoder re-encodes src (mono) into dst and reports the written size.
type Encoder interface {
	Encode(ctx context.Context, src, dst, codec string, s Settings) (int64, error)
}

// CompressorOptions configures the attempt loop.
type CompressorOptions struct {
	Codec       string
	ByteBudget  int64
	MaxAttempts int
}

// Compression is a successful compression result.
type Compression struct {
	Path     string
	Size     int64
	Settings Settings
	Attempts int
}

// Compressor lowers bitrate and sample rate until the output fits the budget.
type Compressor struct {
	enc    Encoder
	opts   CompressorOptions
	logger logger.Logger
}

// NewCompressor creates a Compressor; MaxAttempts defaults to 10.
func NewCompressor(enc Encoder, opts CompressorOptions, log logger.Logger) *Compressor {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	if opts.Codec == "" {
		opts.Codec = "mp3"
	}
	return &Compressor{enc: enc, opts: opts, logger: log}
}

// Compress encodes src into workDir until the result is within the budget.
// It fails with CompressionBudgetExceeded after exactly MaxAttempts misses.
func (c *Compressor) Compress(ctx context.Context, src, workDir string) (*Compression, error) {
	settings := InitialSettings()
	best := int64(-1)

	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dst := filepath.Join(workDir, fmt.Sprintf("compressed_%02d.%s", attempt, c.opts.Codec))
		size, err := c.enc.Encode(ctx, src, dst, c.opts.Codec, settings)
		if err != nil {
			return nil, apperror.Wrapf(err, apperror.Internal, "encode attempt %d", attempt)
		}

		c.logger.Debug(ctx, "Compression attempt %d: %d kbps, %d Hz -> %d bytes (budget %d)",
			attempt, settings.BitrateKbps, settings.SampleRate, size, c.opts.ByteBudget)

		if size <= c.opts.ByteBudget {
			return &Compression{Path: dst, Size: size, Settings: settings, Attempts: attempt}, nil
		}

		if best < 0 || size < best {
			best = size
		}
		_ = os.Remove(dst)
		settings = settings.Next()
	}

	return nil, apperror.Newf(apperror.CompressionBudgetExceeded,
		"compressed audio is %d bytes after %d attempts, budget is %d bytes",
		best, c.opts.MaxAttempts, c.opts.ByteBudget).
		WithMetadata("best_size", strconv.FormatInt(best, 10)).
		WithMetadata("attempts", strconv.Itoa(c.opts.MaxAttempts))
}
