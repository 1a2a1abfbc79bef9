package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidInputType, http.StatusBadRequest},
		{CompressionBudgetExceeded, http.StatusInternalServerError},
		{SegmentationFailure, http.StatusInternalServerError},
		{TranscriptionCallFailure, http.StatusInternalServerError},
		{SummarizationCallFailure, http.StatusInternalServerError},
		{MissingTranscript, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := New(tt.kind, "x").HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("segment 3: %w", Wrap(base, TranscriptionCallFailure, "transcribe segment"))

	if !IsKind(err, TranscriptionCallFailure) {
		t.Error("IsKind() = false, want true")
	}
	if IsKind(err, MissingTranscript) {
		t.Error("IsKind() matched the wrong kind")
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is() lost the cause")
	}
}

func TestEnsure(t *testing.T) {
	plain := errors.New("boom")
	if got := Ensure(plain); got.Kind != Internal {
		t.Errorf("Ensure(plain).Kind = %s, want %s", got.Kind, Internal)
	}

	typed := New(MissingTranscript, "no transcript available")
	if got := Ensure(fmt.Errorf("wrapped: %w", typed)); got != typed {
		t.Errorf("Ensure() = %v, want original error", got)
	}
}

func TestDetailAndMetadata(t *testing.T) {
	err := Newf(CompressionBudgetExceeded, "best size %d exceeds budget", 300).
		WithMetadata("best_size", "300")

	if err.Detail() != "best size 300 exceeds budget" {
		t.Errorf("Detail() = %q", err.Detail())
	}
	if err.Metadata["best_size"] != "300" {
		t.Errorf("Metadata = %v", err.Metadata)
	}
}
