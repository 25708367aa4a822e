// Package keylock serializes work per string key inside one process.
package keylock

import (
	"slices"
	"sync"
)

// Locker hands out one mutex per key and forgets it once nobody holds or waits for it,
// so the map only grows with the number of keys in use at the same time.
//
// Example:
//
//	locks := keylock.New()
//	unlock := locks.Lock("buyer:" + id.String(), "pincode:560001")
//	defer unlock()
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	waiters int
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock blocks until every key is held by the caller and returns the function that
// releases them. Keys are taken in sorted order so that two callers locking the
// same set never deadlock. Duplicate keys are locked once.
func (l *Locker) Lock(keys ...string) (unlock func()) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]string, 0, len(sorted))
	for _, key := range sorted {
		l.acquire(key)
		held = append(held, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				l.release(held[i])
			}
		})
	}
}

// Len returns the number of keys currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) acquire(key string) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.waiters++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[key]
	e.waiters--
	if e.waiters == 0 {
		delete(l.locks, key)
	}
	e.mu.Unlock()
}
