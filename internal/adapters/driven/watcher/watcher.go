// Package watcher turns files arriving in an inbox directory into drop events.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/paperlens/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is delivered.
const DefaultSettle = 250 * time.Millisecond

// DropHandler receives the paths of one drop event.
type DropHandler func(ctx context.Context, paths []string)

// Inbox watches a directory and delivers settled files to a handler.
type Inbox struct {
	dir     string
	settle  time.Duration
	handler DropHandler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewInbox creates an inbox for dir. settle <= 0 means DefaultSettle.
func NewInbox(dir string, settle time.Duration, handler DropHandler) *Inbox {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Inbox{
		dir:     dir,
		settle:  settle,
		handler: handler,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled.
func (in *Inbox) Run(ctx context.Context) error {
	if err := os.MkdirAll(in.dir, 0700); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(in.dir); err != nil {
		return fmt.Errorf("watching %s: %w", in.dir, err)
	}
	logger.Info("watching %s for dropped files", in.dir)

	defer in.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				in.schedule(ctx, ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// schedule (re)starts the settle timer for path.
func (in *Inbox) schedule(ctx context.Context, path string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if t, ok := in.pending[path]; ok {
		t.Reset(in.settle)
		return
	}
	in.pending[path] = time.AfterFunc(in.settle, func() {
		in.mu.Lock()
		delete(in.pending, path)
		in.mu.Unlock()

		info, err := os.Stat(path)
		if err != nil || info.IsDir() || ctx.Err() != nil {
			return
		}
		logger.Debug("watcher: dropped %s", filepath.Base(path))
		in.handler(ctx, []string{path})
	})
}

func (in *Inbox) stopPending() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for path, t := range in.pending {
		t.Stop()
		delete(in.pending, path)
	}
}
