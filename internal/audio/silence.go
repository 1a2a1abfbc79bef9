package audio

import (
	"math"
	"time"
)

// silenceWindow is the analysis hop used for loudness measurement.
const silenceWindow = 10 * time.Millisecond

// SilenceOptions configures silence detection.
type SilenceOptions struct {
	MinSilence  time.Duration
	ThresholdDB float64
}

// DefaultSilenceOptions mirrors common pause lengths in speech.
func DefaultSilenceOptions() SilenceOptions {
	return SilenceOptions{MinSilence: 500 * time.Millisecond, ThresholdDB: -40}
}

// SilenceRegion is a run of frames quieter than the threshold.
type SilenceRegion struct {
	StartFrame int
	EndFrame   int
}

// Mid is the preferred cut point inside the region.
func (r SilenceRegion) Mid() int {
	return r.StartFrame + (r.EndFrame-r.StartFrame)/2
}

// DetectSilence returns silence regions of at least opts.MinSilence, in order.
func DetectSilence(b *Buffer, opts SilenceOptions) []SilenceRegion {
	frames := b.Frames()
	if frames == 0 || b.SampleRate == 0 {
		return nil
	}

	hop := max(int(int64(b.SampleRate)*int64(silenceWindow)/int64(time.Second)), 1)
	minFrames := int(int64(b.SampleRate) * int64(opts.MinSilence) / int64(time.Second))
	fullScale := math.Pow(2, float64(b.BitDepth-1))

	var regions []SilenceRegion
	runStart := -1
	flush := func(end int) {
		if runStart >= 0 && end-runStart >= minFrames {
			regions = append(regions, SilenceRegion{StartFrame: runStart, EndFrame: end})
		}
		runStart = -1
	}

	for start := 0; start < frames; start += hop {
		end := min(start+hop, frames)
		if loudnessDB(b.Samples[start*b.Channels:end*b.Channels], fullScale) < opts.ThresholdDB {
			if runStart < 0 {
				runStart = start
			}
			continue
		}
		flush(start)
	}
	flush(frames)

	return regions
}

func loudnessDB(samples []int, fullScale float64) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / fullScale
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}
