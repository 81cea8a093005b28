package kvstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeFunc receives the keys changed by another writer of the file.
type ChangeFunc func(keys []string)

// Watcher reports changes made to a File by other processes.
type Watcher struct {
	file    *File
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// Watch starts watching the file's directory. fn runs on the watcher
// goroutine for every refresh that changed at least one key. Watching stops
// when ctx is cancelled or Close is called.
func (f *File) Watch(ctx context.Context, logger *zap.Logger, fn ChangeFunc) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kvstore: create watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file inode.
	if err := fsw.Add(filepath.Dir(f.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("kvstore: watch %s: %w", filepath.Dir(f.path), err)
	}
	w := &Watcher{file: f, watcher: fsw, logger: logger, done: make(chan struct{})}
	go w.run(ctx, fn)
	return w, nil
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context, fn ChangeFunc) {
	defer close(w.done)
	defer w.watcher.Close()
	target := filepath.Clean(w.file.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			changed, err := w.file.Refresh()
			if err != nil {
				w.logger.Warn("kvstore refresh failed", zap.String("path", target), zap.Error(err))
				continue
			}
			if len(changed) > 0 && fn != nil {
				fn(changed)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("kvstore watcher error", zap.Error(err))
		}
	}
}
