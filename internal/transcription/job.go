package transcription

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meetscribe/internal/audio"
)

// Job is the state of one transcription request.
type Job struct {
	ID       string
	Filename string
	Dir      string
	Segments []audio.Segment

	mu      sync.Mutex
	results map[int]string
}

// newJob creates a job with its own directory under tempDir.
func newJob(tempDir, filename string) (*Job, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp root: %w", err)
	}

	id := uuid.NewString()
	dir, err := os.MkdirTemp(tempDir, "job-"+id+"-*")
	if err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}

	return &Job{
		ID:       id,
		Filename: filename,
		Dir:      dir,
		results:  make(map[int]string),
	}, nil
}

func (j *Job) setResult(index int, text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[index] = text
}

// Assemble joins the segment texts in index order with single spaces,
// regardless of the order they completed in.
func (j *Job) Assemble() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Assemble(j.results)
}

// Assemble joins trimmed texts by ascending index.
func Assemble(results map[int]string) string {
	indexes := make([]int, 0, len(results))
	for i := range results {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, strings.TrimSpace(results[i]))
	}
	return strings.Join(parts, " ")
}
