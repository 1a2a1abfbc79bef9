package watcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/inbox/standup.mp3", true},
		{"/inbox/Standup.M4A", true},
		{"/inbox/call.wav", true},
		{"/inbox/notes.txt", false},
		{"/inbox/.partial.mp3", false},
		{"/inbox/noext", false},
	}

	for _, tt := range tests {
		if got := isAudioFile(tt.path); got != tt.want {
			t.Errorf("isAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherDispatchesAudioFiles(t *testing.T) {
	dir := t.TempDir()

	var (
		mu   sync.Mutex
		seen []string
		done = make(chan struct{}, 4)
	)
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(dir, handler, logger.New("error", "text", io.Discard), 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()
	w.(*implWatcher).settleDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	// give the watcher loop a moment to start
	time.Sleep(50 * time.Millisecond)
	for _, name := range []string{"ignore.txt", "meeting.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called for audio file")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "meeting.mp3" {
		t.Errorf("handled = %v, want [meeting.mp3]", seen)
	}
}
