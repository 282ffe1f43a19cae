package memory

import (
	"context"
	"sync"
)

// Locker serializes per-listing mutations in process with one mutex per
// listing key. Mutexes are never evicted; the key space is bounded by the
// number of listings a single process touches.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

func (l *Locker) Acquire(_ context.Context, listingID string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[listingID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[listingID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock, nil
}
