package watcher

import "context"

// Watcher monitors a drop folder for files holding video URLs.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// URLHandler processes one URL read from a drop file.
type URLHandler func(ctx context.Context, url string) error
