package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driving"
	"github.com/margin-labs/margo/internal/logger"
	"github.com/margin-labs/margo/internal/textdiff"
)

// defaultRereadDelay is the quiet period after a burst of file events
// before the file is reread. Saves often arrive as several events.
const defaultRereadDelay = 150 * time.Millisecond

// Config holds the watcher settings.
type Config struct {
	// Path is the file to watch.
	Path string

	// RereadDelay overrides the quiet period before rereading.
	RereadDelay time.Duration
}

// Watcher drives the checker from file system events: each settled
// burst of writes rereads the file, diffs it against the previous
// content and hands the change set to the checker.
type Watcher struct {
	checker driving.LiveChecker
	view    *FileView
	path    string
	delay   time.Duration

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewWatcher creates a watcher feeding the checker from changes to
// the configured file.
func NewWatcher(checker driving.LiveChecker, view *FileView, cfg Config) (*Watcher, error) {
	if checker == nil {
		return nil, fmt.Errorf("creating watcher: %w", ErrMissingChecker)
	}
	if view == nil {
		return nil, fmt.Errorf("creating watcher: %w", ErrMissingView)
	}

	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}

	delay := cfg.RereadDelay
	if delay <= 0 {
		delay = defaultRereadDelay
	}

	return &Watcher{
		checker: checker,
		view:    view,
		path:    path,
		delay:   delay,
	}, nil
}

// Run watches the file until the context is cancelled. The checker is
// destroyed on the way out, cancelling any in-flight analysis.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer fsw.Close()
	defer w.checker.Destroy()
	defer w.stopTimer()

	// Editors replace files on save, which silently drops a watch on
	// the file itself. Watching the directory and filtering keeps
	// events coming across replace-style saves.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	logger.Info("watching %s", w.path)

	// The current content counts as a change, so the first analysis
	// cycle runs without waiting for a save.
	w.checker.HandleUpdate(domain.ViewUpdate{DocChanged: true})

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent filters directory events down to content changes of the
// watched file. Reports whether a reread was scheduled.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	w.scheduleReread()
	return true
}

// scheduleReread resets the quiet-period timer, collapsing a burst of
// events into a single reread.
func (w *Watcher) scheduleReread() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reread)
}

// stopTimer cancels any pending reread.
func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// reread loads the file and feeds the difference to the checker.
func (w *Watcher) reread() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// Reads fail mid-replace; the next event retries.
		logger.Warn("reread %s: %v", w.path, err)
		return
	}

	text := string(data)
	before := w.view.Text()
	if text == before {
		return
	}

	cs := textdiff.Changes(before, text)
	editedFrom := len(text)
	if len(cs.Changes) > 0 {
		editedFrom = cs.Changes[0].From
	}
	w.view.SetText(text, editedFrom)

	logger.Debug("reread %s: %d change(s)", w.path, len(cs.Changes))
	w.checker.HandleUpdate(domain.ViewUpdate{DocChanged: true, Changes: cs})
}
