// Package watch reports changes to the directory currently being browsed.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"filechooser/internal/errors"
	"filechooser/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the directory must be quiet before a Change
// is delivered.
const DefaultDebounce = 200 * time.Millisecond

// Change is a burst of filesystem events in one directory.
type Change struct {
	Dir       string
	Paths     []string // affected entries, sorted
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher follows a single directory using fsnotify. Calling Watch moves
// it to another directory; events from the previous one are discarded.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	delay     time.Duration
	logger    *log.Logger

	changes  chan Change
	stopChan chan struct{}
	done     chan struct{}

	mutex    sync.RWMutex
	dir      string
	running  bool
	stopped  bool
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a Change is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithLogger sets the watcher's logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a stopped watcher that follows no directory.
func New(opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &Watcher{
		fsWatcher: fsWatcher,
		delay:     DefaultDebounce,
		logger:    log.Default(),
		changes:   make(chan Change, 1),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch switches the watcher to dir.
func (w *Watcher) Watch(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.NewFileError("cannot watch", dir, errors.NotADirectory, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("cannot watch", dir, errors.NotADirectory, nil)
	}
	dir = filepath.Clean(dir)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if dir == w.dir {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.NewFileError("cannot watch", dir, errors.NotADirectory, err)
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			w.logger.WithError(err).With(log.F("dir", w.dir)).Debug("removing watch")
		}
	}
	w.dir = dir
	w.logger.With(log.F("dir", dir)).Debug("watching directory")
	return nil
}

// Dir returns the watched directory, or "" if none.
func (w *Watcher) Dir() string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.dir
}

// Changes delivers debounced changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins processing events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	w.running = true
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]fsnotify.Op{}
		pendDir string
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				stopTimer()
				return
			}
			dir := w.Dir()
			if filepath.Dir(event.Name) != dir {
				continue
			}
			if pendDir != dir {
				pending = map[string]fsnotify.Op{}
				pendDir = dir
			}
			pending[event.Name] |= event.Op
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if pendDir == w.Dir() && len(pending) > 0 {
				w.emit(pendDir, pending)
			}
			pending = map[string]fsnotify.Op{}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				stopTimer()
				return
			}
			w.logger.WithError(err).Warn("fsnotify watcher error")

		case <-w.stopChan:
			stopTimer()
			return
		}
	}
}

func (w *Watcher) emit(dir string, pending map[string]fsnotify.Op) {
	c := Change{Dir: dir, Timestamp: time.Now()}
	for p, op := range pending {
		c.Paths = append(c.Paths, p)
		c.Op |= op
	}
	sort.Strings(c.Paths)

	// At most one change is queued.
	select {
	case w.changes <- c:
	default:
		w.logger.With(log.F("dir", dir)).Debug("change already queued")
	}
}

// Stop halts the watcher and closes the Changes channel. It is safe to
// call more than once, and on a watcher that was never started.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mutex.Lock()
		wasRunning := w.running
		w.running = false
		w.stopped = true
		close(w.stopChan)
		w.mutex.Unlock()

		if err := w.fsWatcher.Close(); err != nil {
			w.logger.WithError(err).Warn("closing fsnotify watcher")
		}
		if wasRunning {
			<-w.done
		}
		close(w.changes)
	})
}

// IsRunning reports whether the watcher is processing events.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
