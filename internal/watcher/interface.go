package watcher

import "context"

// Watcher monitors the inbox folder for new recordings.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one newly dropped audio file.
type EventHandler func(ctx context.Context, filePath string) error
