package attendance

import (
	"sync"
	"time"
)

type dayKey struct {
	employeeID string
	date       string
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// dayLocker serializes check-in and check-out of one employee on one day
// inside this process. Entries are dropped once no goroutine holds or waits.
type dayLocker struct {
	mu    sync.Mutex
	locks map[dayKey]*keyedLock
}

func newDayLocker() *dayLocker {
	return &dayLocker{locks: make(map[dayKey]*keyedLock)}
}

// Lock blocks until the key is free and returns its release func.
func (l *dayLocker) Lock(employeeID string, date time.Time) func() {
	key := dayKey{employeeID: employeeID, date: date.Format("2006-01-02")}

	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyedLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *dayLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
