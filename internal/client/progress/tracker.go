// Package progress publishes the state of the current sync pass to any number of subscribers.
package progress

import (
	"sort"
	"sync"

	"github.com/iudanet/schoolsync/internal/models"
)

// Listener receives a copy of the progress after every change.
type Listener func(models.SyncProgress)

// Tracker holds the progress of the current sync pass.
// Listeners are called synchronously by the goroutine that made the change,
// after the lock is released, so a listener may read Snapshot or unsubscribe.
type Tracker struct {
	mu        sync.Mutex
	current   models.SyncProgress
	listeners map[uint64]Listener
	nextID    uint64
}

// NewTracker returns a tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{
		current:   models.SyncProgress{Status: models.SyncIdle},
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe registers fn and returns a func that removes it.
// Calling the returned func more than once is a no-op.
func (t *Tracker) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// Snapshot returns the current progress.
func (t *Tracker) Snapshot() models.SyncProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Reset starts a new pass over total items.
func (t *Tracker) Reset(total int) {
	t.update(func(p *models.SyncProgress) {
		*p = models.SyncProgress{Status: models.SyncSyncing, Total: total}
	})
}

// Record counts one processed item.
func (t *Tracker) Record(succeeded bool) {
	t.update(func(p *models.SyncProgress) {
		p.Processed++
		if succeeded {
			p.Succeeded++
		} else {
			p.Failed++
		}
	})
}

// Complete marks the pass as finished.
func (t *Tracker) Complete() {
	t.update(func(p *models.SyncProgress) {
		p.Status = models.SyncCompleted
	})
}

func (t *Tracker) update(fn func(p *models.SyncProgress)) {
	t.mu.Lock()
	fn(&t.current)
	snapshot := t.current

	ids := make([]uint64, 0, len(t.listeners))
	for id := range t.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, t.listeners[id])
	}
	t.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
