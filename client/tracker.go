package client

import "sync"

// operationTracker serializes operations per template id. A user
// double-clicking "Add to cart" before the first request resolves must
// not produce two server-side mutations for the same item, because the
// server provides no idempotency key. Tracking per id rather than
// globally keeps operations on different items free to overlap.
type operationTracker struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newOperationTracker() *operationTracker {
	return &operationTracker{busy: make(map[string]struct{})}
}

// isBusy reports whether an operation for the id is still in flight.
func (t *operationTracker) isBusy(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.busy[id]
	return ok
}

// tryAcquire marks the id busy. It returns false, without blocking or
// queuing, when another operation already holds the id.
func (t *operationTracker) tryAcquire(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.busy[id]; ok {
		return false
	}
	t.busy[id] = struct{}{}
	return true
}

// release deletes the id from the map entirely so the map cannot grow
// unbounded across a long session.
func (t *operationTracker) release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.busy, id)
}

// withItem runs fn under the id's busy flag and releases on every exit
// path, panics included. It returns false when the id was already busy
// and fn never ran.
func (t *operationTracker) withItem(id string, fn func() error) (bool, error) {
	if !t.tryAcquire(id) {
		return false, nil
	}
	defer t.release(id)
	return true, fn()
}
