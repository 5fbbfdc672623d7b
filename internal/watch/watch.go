// Package watch reports changes to a single batch file.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before a change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // File written or recreated
	ChangeRemoved                    // File deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is a debounced change to the watched file.
type Change struct {
	Kind ChangeKind
	Path string
}

// Watcher monitors one file. It watches the parent directory so editors
// that save by writing a temp file and renaming it over the original are
// still seen.
type Watcher struct {
	Path     string
	Changes  <-chan Change // Read-only external channel
	Debounce time.Duration

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for path. Start must be called to begin watching.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// A buffer of one is enough: a queued change already tells the
	// consumer to reload.
	ch := make(chan Change, 1)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		Debounce: DefaultDebounce,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.Path), err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	var (
		pending bool
		last    time.Time
		kind    ChangeKind
	)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.emit(kind)
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				kind = ChangeModified
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				kind = ChangeRemoved
			default:
				continue
			}
			pending = true
			last = time.Now()

		case <-ticker.C:
			if pending && time.Since(last) >= debounce {
				w.emit(kind)
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event retries.
		}
	}
}

// emit never blocks. If a change is already queued, the newer kind
// replaces it.
func (w *Watcher) emit(kind ChangeKind) {
	c := Change{Kind: kind, Path: w.Path}
	for {
		select {
		case w.changes <- c:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}
