package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "transcription.txt"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func TestLoadMissing(t *testing.T) {
	s := newStore(t)
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestSaveFormat(t *testing.T) {
	s := newStore(t)
	if err := s.Save(Record{Filename: "standup.m4a", Body: "hello team"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "File Name: standup.m4a\n\nhello team" {
		t.Errorf("file content = %q", data)
	}
}

func TestSaveIsIdempotentOverwrite(t *testing.T) {
	s := newStore(t)
	r := Record{Filename: "a.mp3", Body: "first\n\nparagraph"}

	for range 2 {
		if err := s.Save(r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != r {
		t.Errorf("Load() = %+v, want %+v", got, r)
	}

	if err := s.Save(Record{Filename: "b.mp3", Body: "second"}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Load()
	if got.Filename != "b.mp3" || got.Body != "second" {
		t.Errorf("Load() after overwrite = %+v", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(s.Path()))
	if len(entries) != 1 {
		t.Errorf("%d files in record dir, want 1", len(entries))
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Record
	}{
		{"no header", "just text", Record{Body: "just text"}},
		{"header without separator", "File Name: x.mp3", Record{Body: "File Name: x.mp3"}},
		{"empty body", "File Name: x.mp3\n\n", Record{Filename: "x.mp3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := s.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConcurrentSaveLoad(t *testing.T) {
	s := newStore(t)
	if err := s.Save(Record{Filename: "seed.mp3", Body: "seed"}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Save(Record{Filename: fmt.Sprintf("f%d.mp3", i), Body: fmt.Sprintf("body %d", i)})
		}()
		go func() {
			defer wg.Done()
			r, err := s.Load()
			if err != nil {
				t.Errorf("Load() error = %v", err)
				return
			}
			if r.Filename == "" {
				t.Errorf("Load() observed a torn record: %+v", r)
			}
		}()
	}
	wg.Wait()
}
