package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one change.
const DefaultDebounce = 100 * time.Millisecond

type ChangeKind uint8

const (
	ChangeEncounter ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeEncounter:
		return "encounter"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change is one debounced edit to an encounter or script file.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to encounter and script files so a running viewer
// can rebuild its resolver.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Changes  chan Change
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches dirs. A non-positive debounce uses DefaultDebounce.
func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Changes:  make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

// run coalesces events per path and reports a change once the path has been
// quiet for the debounce interval, so the reload sees the final write.
func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]pendingChange)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	arm := func() {
		if len(pending) == 0 {
			fire = nil
			return
		}
		var next time.Time
		for _, p := range pending {
			if next.IsZero() || p.due.Before(next) {
				next = p.due
			}
		}
		timer.Reset(time.Until(next))
		fire = timer.C
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind := classify(event.Name)
			if kind == 0 {
				continue
			}
			pending[event.Name] = pendingChange{kind: kind, due: time.Now().Add(w.debounce)}
			arm()
		case <-fire:
			now := time.Now()
			for path, p := range pending {
				if p.due.After(now) {
					continue
				}
				delete(pending, path)
				select {
				case w.Changes <- Change{Path: path, Kind: p.kind}:
				default:
				}
			}
			arm()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

type pendingChange struct {
	kind ChangeKind
	due  time.Time
}

func classify(path string) ChangeKind {
	switch {
	case isSpecFile(path):
		return ChangeEncounter
	case isScriptFile(path):
		return ChangeScript
	}
	return 0
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
