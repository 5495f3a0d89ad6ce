package session

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports when the cookie file changes on disk, so a running UI can
// notice a browser re-login without restarting. The Jar itself re-reads
// lazily; the watcher only exists to surface the event to the user.
type Watcher struct {
	fw     *fsnotify.Watcher
	target string
	events chan struct{}
	log    *zap.Logger
}

// Watch starts watching the cookie file's directory. The directory must
// exist; a missing directory means the session feature is inert and the
// caller should treat the error as non-fatal.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and browsers replace the
	// file on write, which would silently drop a file-level watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		target: filepath.Base(path),
		events: make(chan struct{}, 1),
		log:    log,
	}
	go w.run()
	return w, nil
}

// Events signals once per observed change to the cookie file. Signals are
// coalesced; a slow consumer sees at most one pending event.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) run() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("cookie file changed", zap.String("op", ev.Op.String()))
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("cookie watcher error", zap.Error(err))
		}
	}
}
