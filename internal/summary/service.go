package summary

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
)

const jobKind = "summary"

func (s *implService) Summarize(ctx context.Context, transcript string) (res *Result, err error) {
	defer func() { s.recorder.JobFinished(jobKind, err) }()

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		s.logger.Info(ctx, "No transcription provided, reading the stored record")
		if transcript, err = s.loadRecord(); err != nil {
			return nil, err
		}
	}

	chunks := Chunk(transcript, s.maxTokens)
	s.logger.Info(ctx, "Transcription split into %d chunks for summarization", len(chunks))

	summary, err := s.reducer.Reduce(ctx, chunks)
	if err != nil {
		s.logger.Error(ctx, "Summarization failed: %v", err)
		return nil, err
	}

	return &Result{Transcription: transcript, Summary: summary}, nil
}

func (s *implService) loadRecord() (string, error) {
	rec, err := s.store.Load()
	if errors.Is(err, record.ErrNotFound) {
		return "", apperror.New(apperror.MissingTranscript,
			"No transcription provided and transcription.txt is missing.")
	}
	if err != nil {
		return "", apperror.Wrap(err, apperror.Internal, "read transcription record")
	}

	body := strings.TrimSpace(rec.Body)
	if body == "" {
		return "", apperror.New(apperror.MissingTranscript,
			"No transcription provided and transcription.txt is empty.")
	}
	return body, nil
}
