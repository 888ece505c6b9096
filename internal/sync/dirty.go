package sync

import (
	stdsync "sync"
	"time"
)

// dirtySet marks lists whose optimistic local state may have diverged from
// the remote because a write failed. Optimistic state is never rolled
// back; the marker lets a reload detect and reconcile the drift instead.
type dirtySet struct {
	mu stdsync.Mutex
	m  map[string]time.Time
}

func newDirtySet() *dirtySet {
	return &dirtySet{m: make(map[string]time.Time)}
}

func (d *dirtySet) Mark(listID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.m[listID]; !exists {
		d.m[listID] = time.Now().UTC()
	}
}

func (d *dirtySet) Since(listID string) (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	since, ok := d.m[listID]
	return since, ok
}

func (d *dirtySet) Clear(listID string) {
	d.mu.Lock()
	delete(d.m, listID)
	d.mu.Unlock()
}

func (d *dirtySet) ClearAll() {
	d.mu.Lock()
	d.m = make(map[string]time.Time)
	d.mu.Unlock()
}

func (d *dirtySet) All() map[string]time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]time.Time, len(d.m))
	for listID, since := range d.m {
		out[listID] = since
	}
	return out
}
