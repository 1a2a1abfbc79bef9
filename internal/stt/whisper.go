package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/pkg/executor"
)

// whisperTranscriber runs a local whisper.cpp CLI binary.
type whisperTranscriber struct {
	executor  executor.Executor
	logger    logger.Logger
	binary    string
	modelPath string
	language  string
	threads   int
}

func (t *whisperTranscriber) Name() string { return "whisper:" + filepath.Base(t.modelPath) }

func (t *whisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	// runs next to the segment; whisper appends .txt to the output name
	dir, file := filepath.Dir(audioPath), filepath.Base(audioPath)
	stem := strings.TrimSuffix(file, filepath.Ext(file))

	t.logger.Debug(ctx, "Running whisper with %d threads: %s", t.threads, audioPath)

	// -otxt: plain text output, -nt: no timestamps
	// -ml/-mc 0: no segment length or context limit
	args := []string{
		"-m", t.modelPath,
		"-f", file,
		"-otxt",
		"-nt",
		"-t", strconv.Itoa(t.threads),
		"-ml", "0",
		"-mc", "0",
		"--output-file", stem,
	}
	if t.language != "" {
		args = append(args, "-l", t.language)
	}

	if _, err := t.executor.ExecuteInDir(ctx, dir, t.binary, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := filepath.Join(dir, stem+".txt")
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	if err := os.Remove(txtPath); err != nil {
		t.logger.Warn(ctx, "Failed to cleanup whisper output %s: %v", txtPath, err)
	}

	return joinLines(string(data)), nil
}

// joinLines flattens whisper's line-per-segment output into one paragraph.
func joinLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
