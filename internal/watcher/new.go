package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meetscribe/internal/logger"
)

// DefaultSettleDelay is how long a new file is left alone before handling,
// so copies in progress can finish.
const DefaultSettleDelay = 500 * time.Millisecond

// New creates a Watcher on inboxDir, creating the folder if needed.
func New(inboxDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	if err := os.MkdirAll(inboxDir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &implWatcher{
		inboxDir:      inboxDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		settleDelay:   DefaultSettleDelay,
		semaphore:     make(chan struct{}, maxConcurrent),
	}, nil
}
