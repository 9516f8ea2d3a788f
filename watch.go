package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type fileChangedMsg struct{}
type fileRemovedMsg struct{}
type watchErrMsg struct{ err error }

// Watcher turns raw fsnotify notifications for a single file into
// collapsed change events: one fileChangedMsg per pending batch, or a
// fileRemovedMsg once the file is actually gone.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	msgs chan tea.Msg
}

// NewWatcher registers a watch on the file's parent directory and
// filters events by name. Watching the directory instead of the file
// keeps the subscription alive across editors that save by writing a
// new file and renaming it over the watched path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("cannot watch %s: %w", path, err)
	}

	w := &Watcher{fsw: fsw, path: abs, msgs: make(chan tea.Msg, 1)}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// WaitCmd blocks on the next collapsed event. The event loop re-arms it
// after handling each message.
func (w *Watcher) WaitCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.msgs
		if !ok {
			return nil
		}
		return msg
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				close(w.msgs)
				return
			}
			changed, removed := w.classify(ev, false, false)
			changed, removed = w.drain(changed, removed)
			if msg := w.collapse(changed, removed); msg != nil {
				w.msgs <- msg
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				close(w.msgs)
				return
			}
			w.msgs <- watchErrMsg{err: err}
		}
	}
}

// drain consumes every notification already queued so a burst of writes
// becomes a single reload.
func (w *Watcher) drain(changed, removed bool) (bool, bool) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return changed, removed
			}
			changed, removed = w.classify(ev, changed, removed)
		default:
			return changed, removed
		}
	}
}

func (w *Watcher) classify(ev fsnotify.Event, changed, removed bool) (bool, bool) {
	if filepath.Clean(ev.Name) != w.path {
		return changed, removed
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		changed = true
	}
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		removed = true
	}
	return changed, removed
}

// collapse resolves one batch. A removal wins over pending writes,
// except when the path already exists again: rename-based save patterns
// recreate the file immediately and count as a content change.
func (w *Watcher) collapse(changed, removed bool) tea.Msg {
	if removed {
		if _, err := os.Stat(w.path); err != nil {
			return fileRemovedMsg{}
		}
		return fileChangedMsg{}
	}
	if changed {
		return fileChangedMsg{}
	}
	return nil
}
