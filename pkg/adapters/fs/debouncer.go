package fs

import (
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// debouncer collects events and emits them as a batch after a quiet period.
// Multiple events for the same ID within the window collapse into the latest one.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	pending  map[string]core.Event
	order    []string
	timer    *time.Timer
	output   chan []core.Event
	done     chan struct{}
	stopOnce sync.Once
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]core.Event),
		output:   make(chan []core.Event, 16),
		done:     make(chan struct{}),
	}
}

// add queues an event and resets the quiet timer.
func (d *debouncer) add(e core.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pending[e.ID]; !ok {
		d.order = append(d.order, e.ID)
	}
	d.pending[e.ID] = e

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]core.Event, 0, len(d.order))
	for _, id := range d.order {
		batch = append(batch, d.pending[id])
	}
	d.pending = make(map[string]core.Event)
	d.order = nil
	d.mu.Unlock()

	select {
	case d.output <- batch:
	case <-d.done:
	}
}

// stop cancels any pending flush. Events still queued are dropped.
func (d *debouncer) stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		if d.timer != nil {
			d.timer.Stop()
		}
		d.mu.Unlock()
		close(d.done)
	})
}
