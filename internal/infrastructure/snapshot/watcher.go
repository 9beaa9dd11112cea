package snapshot

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// debounceWindow coalesces the burst of events a snapshot rewrite emits.
const debounceWindow = 500 * time.Millisecond

// Watcher observes a CSV snapshot directory and invokes a callback when
// any snapshot file changes, letting the service hot-reload its index.
type Watcher struct {
	dir      string
	logger   logging.Logger
	onChange func()

	fw *fsnotify.Watcher
}

// NewWatcher builds a watcher over dir. onChange runs on the watcher
// goroutine after the debounce window closes.
func NewWatcher(dir string, logger logging.Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create snapshot watcher")
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSnapshotUnavailable,
			"watch snapshot dir "+dir)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{dir: dir, logger: logger, onChange: onChange, fw: fw}, nil
}

// Run processes events until ctx is cancelled. It always closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("snapshot file changed",
				logging.String("file", ev.Name),
				logging.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Info("snapshot change detected, triggering reload",
				logging.String("dir", w.dir))
			w.onChange()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("snapshot watcher error", logging.Err(err))
		}
	}
}

// relevant filters events down to writes of the snapshot files themselves.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Base(ev.Name) {
	case WhitelistFile, ControlledFile, PatternsFile:
		return true
	}
	return false
}
