package tui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
)

type queryFileMsg struct {
	query string
}

type watchErrorMsg struct {
	err error
}

// fileWatcher follows one file so the query can be edited in an external editor.
// The directory is watched rather than the file since editors often replace it.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &fileWatcher{watcher: w, path: abs}, nil
}

// next blocks until the file is written and returns its new content. It is used
// as a tea.Cmd and re-issued after every message.
func (f *fileWatcher) next() tea.Msg {
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				data, err := os.ReadFile(f.path)
				if err != nil {
					return watchErrorMsg{err: err}
				}
				// editors truncate before writing, skip the empty intermediate state
				if len(bytes.TrimSpace(data)) == 0 {
					continue
				}
				return queryFileMsg{query: string(data)}
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			return watchErrorMsg{err: err}
		}
	}
}

func (f *fileWatcher) Close() error {
	return f.watcher.Close()
}
