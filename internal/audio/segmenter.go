package audio

import (
	"math"
	"strconv"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
)

// Policy selects how a buffer is partitioned.
type Policy string

const (
	// PolicyUniform splits into equal windows sized from the budget/size ratio.
	PolicyUniform Policy = "uniform"
	// PolicyFixedBytes uses floor(total/budget)+1 equal windows.
	PolicyFixedBytes Policy = "fixed_bytes"
	// PolicySilence is PolicyUniform plus re-splitting oversized windows at pauses.
	PolicySilence Policy = "silence"
)

// SegmenterOptions configures a Segmenter.
type SegmenterOptions struct {
	Policy     Policy
	ByteBudget int64
	Silence    SilenceOptions
}

type span struct {
	start, end int
}

func (s span) frames() int { return s.end - s.start }

// Segmenter partitions a Buffer into ordered WAV segments within the budget.
type Segmenter struct {
	opts SegmenterOptions
}

// NewSegmenter creates a Segmenter. An empty policy means PolicySilence.
func NewSegmenter(opts SegmenterOptions) *Segmenter {
	if opts.Policy == "" {
		opts.Policy = PolicySilence
	}
	if opts.Silence == (SilenceOptions{}) {
		opts.Silence = DefaultSilenceOptions()
	}
	return &Segmenter{opts: opts}
}

// Split returns gap-free segments covering the whole buffer, indexed in
// emission order. An empty buffer or a budget too small for any audio fails
// with SegmentationFailure, as does any window left over the budget.
func (s *Segmenter) Split(b *Buffer) ([]Segment, error) {
	frames := b.Frames()
	if frames == 0 {
		return nil, apperror.New(apperror.SegmentationFailure, "audio is empty")
	}

	maxFrames := MaxFramesWithin(s.opts.ByteBudget, b.Channels, b.BitDepth)
	if maxFrames == 0 {
		return nil, apperror.Newf(apperror.SegmentationFailure,
			"byte budget %d cannot hold any audio", s.opts.ByteBudget)
	}

	var (
		spans    []span
		silences []SilenceRegion
		detected bool
	)
	for i, w := range uniformSpans(frames, s.segmentCount(b, maxFrames)) {
		if w.frames() <= maxFrames {
			spans = append(spans, w)
			continue
		}
		if s.opts.Policy != PolicySilence {
			return nil, apperror.Newf(apperror.SegmentationFailure,
				"window %d is %d bytes, budget is %d bytes",
				i, WAVSize(w.frames(), b.Channels, b.BitDepth), s.opts.ByteBudget).
				WithMetadata("window", strconv.Itoa(i))
		}
		if !detected {
			silences = DetectSilence(b, s.opts.Silence)
			detected = true
		}
		spans = append(spans, splitAtSilence(w, silences, maxFrames)...)
	}

	segments := make([]Segment, len(spans))
	for i, sp := range spans {
		segments[i] = newBufferSegment(i, b, sp.start, sp.end)
	}
	return segments, nil
}

// segmentCount is the number of uniform windows for the configured policy.
// The size ratio ignores the header every window carries, so uniform and
// fixed_bytes are raised to the count whose windows fit maxFrames. The
// silence policy keeps the ratio count and refines the windows that overflow.
func (s *Segmenter) segmentCount(b *Buffer, maxFrames int) int {
	whole := b.EncodedSize()
	budget := s.opts.ByteBudget
	frames := b.Frames()

	var n int
	switch s.opts.Policy {
	case PolicyFixedBytes:
		n = int(whole/budget) + 1
	default:
		if whole <= budget {
			return 1
		}
		total := b.Duration().Seconds()
		target := total * float64(budget) / float64(whole)
		n = int(math.Ceil(total / target))
	}
	if s.opts.Policy != PolicySilence {
		n = max(n, fittingCount(frames, maxFrames))
	}
	return min(max(n, 1), frames)
}

// fittingCount is the fewest equal windows of at most maxFrames each.
func fittingCount(frames, maxFrames int) int {
	return (frames + maxFrames - 1) / maxFrames
}

// uniformSpans cuts [0, frames) into n equal windows; the last one ends at
// frames exactly so integer rounding never leaves a gap.
func uniformSpans(frames, n int) []span {
	spans := make([]span, n)
	for i := range n {
		spans[i] = span{
			start: int(int64(i) * int64(frames) / int64(n)),
			end:   int(int64(i+1) * int64(frames) / int64(n)),
		}
	}
	spans[n-1].end = frames
	return spans
}

// splitAtSilence greedily cuts w at the furthest silence midpoint that keeps
// each piece within maxFrames. When no pause is close enough, the rest of the
// window is cut into equal pieces that fit.
func splitAtSilence(w span, silences []SilenceRegion, maxFrames int) []span {
	var cuts []int
	for _, r := range silences {
		if m := r.Mid(); m > w.start && m < w.end {
			cuts = append(cuts, m)
		}
	}

	var pieces []span
	cursor := w.start
	for w.end-cursor > maxFrames {
		next := -1
		for _, c := range cuts {
			if c <= cursor {
				continue
			}
			if c-cursor > maxFrames {
				break
			}
			next = c
		}
		if next < 0 {
			rest := span{start: cursor, end: w.end}
			for _, p := range uniformSpans(rest.frames(), fittingCount(rest.frames(), maxFrames)) {
				pieces = append(pieces, span{start: cursor + p.start, end: cursor + p.end})
			}
			return pieces
		}
		pieces = append(pieces, span{start: cursor, end: next})
		cursor = next
	}
	return append(pieces, span{start: cursor, end: w.end})
}
