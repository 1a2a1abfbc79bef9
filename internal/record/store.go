// Package record keeps the single most recent transcript on disk.
package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const header = "File Name: "

// ErrNotFound is returned when no transcript has been stored yet.
var ErrNotFound = errors.New("no transcription record")

// Record is the latest transcript and the upload it came from.
type Record struct {
	Filename string
	Body     string
}

// Store is the single-slot transcript record.
type Store interface {
	Save(r Record) error
	Load() (Record, error)
}

// FileStore persists the record as "File Name: <name>\n\n<body>". Each Save
// replaces the previous record atomically; the last writer wins.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a store at path, creating its parent directory.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create record dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the record file location.
func (s *FileStore) Path() string { return s.path }

// Save overwrites the record. Readers never observe a partial file.
func (s *FileStore) Save(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintf(tmp, "%s%s\n\n%s", header, r.Filename, r.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// Load returns the stored record or ErrNotFound. A file without the header
// is returned whole as the body with an empty filename.
func (s *FileStore) Load() (Record, error) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	if errors.Is(err, os.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("read record: %w", err)
	}
	return parse(string(data)), nil
}

func parse(content string) Record {
	if !strings.HasPrefix(content, header) {
		return Record{Body: content}
	}
	name, body, ok := strings.Cut(strings.TrimPrefix(content, header), "\n\n")
	if !ok {
		return Record{Body: content}
	}
	return Record{Filename: name, Body: body}
}
