package audio

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/pkg/executor"
)

// NormalizedSampleRate is the rate every upload is resampled to before decoding.
const NormalizedSampleRate = 16000

// codecArgs maps an output extension to its ffmpeg audio codec.
var codecArgs = map[string]string{
	"mp3": "libmp3lame",
	"m4a": "aac",
	"ogg": "libopus",
	"wav": "pcm_s16le",
}

// FFmpeg drives the ffmpeg binary for normalization and compression.
type FFmpeg struct {
	bin    string
	exec   executor.Executor
	logger logger.Logger
}

// NewFFmpeg creates an FFmpeg runner. An empty bin means "ffmpeg" on PATH.
func NewFFmpeg(bin string, exec executor.Executor, log logger.Logger) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{bin: bin, exec: exec, logger: log}
}

// Normalize converts any input container into 16kHz mono PCM s16le WAV.
// This is the single place where channels are downmixed.
func (f *FFmpeg) Normalize(ctx context.Context, src, dst string) error {
	f.logger.Debug(ctx, "Normalizing audio: %s -> %s", src, dst)

	// -vn drops any video stream, -ac 1 downmixes, -threads 0 uses all cores
	args := []string{
		"-i", src,
		"-vn",
		"-ar", strconv.Itoa(NormalizedSampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		dst,
	}
	if _, err := f.exec.Execute(ctx, f.bin, args...); err != nil {
		return fmt.Errorf("ffmpeg normalize: %w", err)
	}
	return nil
}

// Encode implements Encoder.
func (f *FFmpeg) Encode(ctx context.Context, src, dst, codec string, s Settings) (int64, error) {
	c, ok := codecArgs[codec]
	if !ok {
		return 0, fmt.Errorf("unsupported codec %q", codec)
	}

	args := []string{
		"-i", src,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(s.SampleRate),
		"-c:a", c,
	}
	if codec != "wav" {
		args = append(args, "-b:a", strconv.Itoa(s.BitrateKbps)+"k")
	}
	args = append(args, "-y", dst)

	if _, err := f.exec.Execute(ctx, f.bin, args...); err != nil {
		return 0, fmt.Errorf("ffmpeg encode: %w", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, fmt.Errorf("stat encoded file: %w", err)
	}
	return info.Size(), nil
}
