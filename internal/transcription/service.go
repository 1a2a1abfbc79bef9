package transcription

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/audio"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
)

const jobKind = "transcription"

// Transcribe rejects non-audio uploads, then runs the full pipeline.
func (s *implService) Transcribe(ctx context.Context, up Upload) (string, error) {
	if !strings.HasPrefix(up.ContentType, "audio/") {
		return "", apperror.New(apperror.InvalidInputType, "Invalid file type. Please upload an audio file.").
			WithMetadata("content_type", up.ContentType)
	}

	job, err := newJob(s.opts.TempDir, filepath.Base(up.Filename))
	if err != nil {
		return "", apperror.Wrap(err, apperror.Internal, "prepare job")
	}
	ctx = logger.WithJob(ctx, job.ID)
	defer s.cleanupJob(ctx, job)

	src := filepath.Join(job.Dir, "upload"+filepath.Ext(job.Filename))
	if err := saveUpload(src, up.Body); err != nil {
		return "", apperror.Wrap(err, apperror.Internal, "save upload")
	}

	return s.run(ctx, job, src)
}

// TranscribeFile runs the pipeline on a local file without moving it.
func (s *implService) TranscribeFile(ctx context.Context, path string) (string, error) {
	job, err := newJob(s.opts.TempDir, filepath.Base(path))
	if err != nil {
		return "", apperror.Wrap(err, apperror.Internal, "prepare job")
	}
	ctx = logger.WithJob(ctx, job.ID)
	defer s.cleanupJob(ctx, job)

	return s.run(ctx, job, path)
}

func (s *implService) run(ctx context.Context, job *Job, src string) (transcript string, err error) {
	startTime := time.Now()
	defer func() { s.recorder.JobFinished(jobKind, err) }()

	s.logger.Info(ctx, "Starting transcription: %s", job.Filename)

	job.Segments, err = s.prepare(ctx, job, src)
	if err != nil {
		s.logger.Error(ctx, "Preparing audio failed: %v", err)
		return "", err
	}

	if err = s.dispatch(ctx, job); err != nil {
		s.logger.Error(ctx, "Transcription failed: %v", err)
		return "", err
	}

	transcript = job.Assemble()
	if err = s.store.Save(record.Record{Filename: job.Filename, Body: transcript}); err != nil {
		return "", apperror.Wrap(err, apperror.Internal, "save transcription record")
	}

	s.logger.Info(ctx, "Transcription completed: %d segments, %d chars in %s",
		len(job.Segments), len(transcript), time.Since(startTime))
	return transcript, nil
}

// prepare normalizes the source and returns the segments to transcribe: one
// compressed file when it fits the budget, PCM windows otherwise.
func (s *implService) prepare(ctx context.Context, job *Job, src string) ([]audio.Segment, error) {
	wavPath := filepath.Join(job.Dir, "normalized.wav")
	if err := s.normalizer.Normalize(ctx, src, wavPath); err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "normalize audio")
	}

	comp, err := s.compressor.Compress(ctx, wavPath, job.Dir)
	if err == nil {
		s.recorder.CompressionAttempts(comp.Attempts)
		s.recorder.SegmentProduced("compressed", comp.Size)
		s.logger.Info(ctx, "Compressed to %d bytes at %d kbps / %d Hz in %d attempt(s)",
			comp.Size, comp.Settings.BitrateKbps, comp.Settings.SampleRate, comp.Attempts)
		return []audio.Segment{audio.NewFileSegment(0, s.opts.Codec, comp.Path, comp.Size, 0)}, nil
	}
	if !apperror.IsKind(err, apperror.CompressionBudgetExceeded) {
		return nil, err
	}
	if appErr, ok := apperror.As(err); ok {
		if n, convErr := strconv.Atoi(appErr.Metadata["attempts"]); convErr == nil {
			s.recorder.CompressionAttempts(n)
		}
	}
	s.logger.Warn(ctx, "Compression could not reach the budget, segmenting: %v", err)

	buf, err := audio.DecodeWAV(wavPath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "decode normalized audio")
	}

	segments, err := s.segmenter.Split(buf)
	if err != nil {
		return nil, err
	}
	for _, seg := range segments {
		s.recorder.SegmentProduced("segmented", seg.Size)
	}
	s.logger.Info(ctx, "Split %s of audio into %d segments", buf.Duration(), len(segments))
	return segments, nil
}

func saveUpload(dst string, body io.Reader) error {
	if body == nil {
		return fmt.Errorf("empty upload body")
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
