// Package watch polls the trove file for external modifications and
// publishes reload events so the session picks up changes made outside the
// running process.
package watch

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/seivan/hoard/internal/logging/events"
	"github.com/seivan/hoard/internal/trove"
)

// Event conveys the freshly loaded entries or an error from a poll.
type Event struct {
	Entries []trove.CommandEntry
	Err     error
}

// Watcher polls the trove file's modification time at a fixed interval and
// reloads it when it changed.
type Watcher struct {
	path     string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup

	// mu guards the baseline: Mark runs on the caller's goroutine while the
	// poller stats concurrently.
	mu       sync.Mutex
	lastMod  time.Time
	lastSize int64
}

// NewWatcher starts a watcher over the trove file. The initial state is the
// file as it exists now; only subsequent changes are reported.
func NewWatcher(path string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
		w.lastSize = info.Size()
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns the channel of reload events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current cycle; use
// Wait for a clean drain in tests.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// Mark records the file's current state so a save issued by this process is
// not reported back as an external change.
func (w *Watcher) Mark() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.lastMod = info.ModTime()
	w.lastSize = info.Size()
	w.mu.Unlock()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			evt, changed := w.check()
			if !changed {
				continue
			}
			select {
			case <-w.ctx.Done():
				return
			case w.events <- evt:
			}
		}
	}
}

func (w *Watcher) check() (Event, bool) {
	info, err := os.Stat(w.path)
	if err != nil {
		// Deleted or unreadable; treat a vanished file as no change and
		// report once it reappears.
		return Event{}, false
	}
	w.mu.Lock()
	unchanged := info.ModTime().Equal(w.lastMod) && info.Size() == w.lastSize
	if !unchanged {
		w.lastMod = info.ModTime()
		w.lastSize = info.Size()
	}
	w.mu.Unlock()
	if unchanged {
		return Event{}, false
	}
	t, err := trove.Load(w.path)
	if err != nil {
		return Event{Err: err}, true
	}
	events.Store.Reloaded(w.path, t.Len())
	return Event{Entries: t.Entries()}, true
}
