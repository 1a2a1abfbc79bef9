package transcription

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/audio"
	"github.com/nguyentantai21042004/meetscribe/internal/resilience"
)

// dispatch transcribes every segment with at most MaxConcurrent calls in
// flight. The first failure cancels the remaining calls and fails the job.
func (s *implService) dispatch(ctx context.Context, job *Job) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	sem := newSemaphore(s.opts.MaxConcurrent)
	for _, seg := range job.Segments {
		if err := sem.acquire(ctx); err != nil {
			fail(err)
			break
		}
		// a failed call cancels before releasing its slot
		if err := ctx.Err(); err != nil {
			sem.release()
			fail(err)
			break
		}

		wg.Add(1)
		go func(seg audio.Segment) {
			defer wg.Done()
			defer sem.release()

			text, err := s.transcribeSegment(ctx, job, seg)
			if err != nil {
				fail(err)
				return
			}
			job.setResult(seg.Index, text)
		}(seg)
	}

	wg.Wait()
	return firstErr
}

// transcribeSegment exports one segment, sends it to the speech-to-text
// capability and deletes the file right after.
func (s *implService) transcribeSegment(ctx context.Context, job *Job, seg audio.Segment) (string, error) {
	index := strconv.Itoa(seg.Index)

	path, err := seg.Export(job.Dir)
	if err != nil {
		return "", apperror.Wrapf(err, apperror.TranscriptionCallFailure, "export segment %d", seg.Index).
			WithMetadata("segment", index)
	}
	defer s.cleanupTempFile(ctx, path)

	if _, err := os.Stat(path); err != nil {
		return "", apperror.Wrapf(err, apperror.TranscriptionCallFailure, "segment %d file missing", seg.Index).
			WithMetadata("segment", index)
	}

	var text string
	err = resilience.Retry(ctx, s.opts.Retry, func(attempt int) error {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
		defer cancel()

		start := time.Now()
		t, err := s.stt.Transcribe(callCtx, path)
		s.recorder.ObserveCall("stt", time.Since(start), err)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		return "", apperror.Wrapf(err, apperror.TranscriptionCallFailure, "transcribe segment %d", seg.Index).
			WithMetadata("segment", index).
			WithMetadata("provider", s.stt.Name())
	}

	s.logger.Debug(ctx, "Segment %d transcribed (%d bytes, %s-%s)", seg.Index, seg.Size, seg.Start, seg.End)
	return text, nil
}
