package library

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change to a library entry.
type Op int

const (
	// OpUpdate indicates an entry was created or rewritten.
	OpUpdate Op = iota
	// OpRemove indicates an entry was deleted or renamed away.
	OpRemove
)

func (op Op) String() string {
	if op == OpRemove {
		return "remove"
	}
	return "update"
}

// Change describes a change to one entry of a directory library.
type Change struct {
	Name   string
	Signal bool
	Op     Op
}

// DefaultDebounce is the quiet period a Watcher waits before reporting.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a Dir library.  Bursts of events are batched
// and reported once the directory has been quiet for Debounce.
type Watcher struct {
	dir      string
	handler  func([]Change)
	debounce time.Duration
	log      *slog.Logger

	watcher  *fsnotify.Watcher
	changes  chan Change
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Watch starts watching the library at dir.  handler is called from a
// watcher goroutine with each batch of changes.  Cancel ctx or call Stop to
// end watching.
func Watch(ctx context.Context, dir string, debounce time.Duration, log *slog.Logger, handler func([]Change)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range []string{dir, filepath.Join(dir, signalsDir)} {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	w := &Watcher{
		dir:      filepath.Clean(dir),
		handler:  handler,
		debounce: debounce,
		log:      log,
		watcher:  fw,
		changes:  make(chan Change, 256),
		done:     make(chan struct{}),
	}
	w.wg.Add(2)
	go w.events(ctx)
	go w.batch(ctx)
	return w, nil
}

// Stop ends watching and waits for the watcher goroutines to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
	w.wg.Wait()
}

func (w *Watcher) events(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			c, ok := w.change(ev)
			if !ok {
				continue
			}
			select {
			case w.changes <- c:
			default:
				w.log.Warn("library watcher dropped change", "name", c.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("library watcher", "err", err)
		}
	}
}

func (w *Watcher) change(ev fsnotify.Event) (Change, bool) {
	name, ok := entryName(filepath.Base(ev.Name))
	if !ok {
		return Change{}, false
	}
	c := Change{Name: name, Signal: filepath.Clean(filepath.Dir(ev.Name)) != w.dir}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		c.Op = OpRemove
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		c.Op = OpUpdate
	default:
		return Change{}, false
	}
	return c, true
}

func (w *Watcher) batch(ctx context.Context) {
	defer w.wg.Done()
	var pending []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(pending) > 0 && w.handler != nil {
			w.handler(w.settle(dedupe(pending)))
		}
		pending = nil
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case c := <-w.changes:
			pending = append(pending, c)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// settle reports a removed entry as updated if another format of it is still
// on disk, as happens when Dir.save replaces a file in a different format.
func (w *Watcher) settle(changes []Change) []Change {
	d := &Dir{Path: w.dir}
	for i, c := range changes {
		if c.Op != OpRemove {
			continue
		}
		if _, _, err := d.find(c.Signal, c.Name); err == nil {
			changes[i].Op = OpUpdate
		}
	}
	return changes
}

// dedupe keeps the latest change per entry, in order of first appearance.
func dedupe(changes []Change) []Change {
	type key struct {
		name   string
		signal bool
	}
	seen := map[key]int{}
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		k := key{c.Name, c.Signal}
		if i, ok := seen[k]; ok {
			out[i] = c
			continue
		}
		seen[k] = len(out)
		out = append(out, c)
	}
	return out
}
