// Package watch regenerates the schema libraries when their inputs change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher reports changes to a set of input files. It watches the
// directories holding them, since editors often replace a file instead of
// writing to it.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	patterns []string
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
}

// NewFileWatcher creates a watcher for files and for any file in their
// directories whose base name matches one of patterns.
func NewFileWatcher(files, patterns []string, onChange func(path string, op fsnotify.Op), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		patterns: patterns,
		onChange: onChange,
		logger:   logger.With().Str("component", "watch").Logger(),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.AddDirectory(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return fw, nil
}

// AddDirectory watches the entries of dir
func (fw *FileWatcher) AddDirectory(dir string) error {
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

// Start delivers matching events to onChange until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if fw.shouldWatch(event.Name) {
				fw.onChange(event.Name, event.Op)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Keep watching
				fw.logger.Warn().Err(err).Msg("Watcher error")
			}
		}
	}
}

func (fw *FileWatcher) shouldWatch(path string) bool {
	if abs, err := filepath.Abs(path); err == nil && fw.files[abs] {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range fw.patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
