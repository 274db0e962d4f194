package attendance

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayLocker_SerializesSameKey(t *testing.T) {
	l := newDayLocker()
	date := day(2)

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("emp-1", date)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, l.size())
}

func TestDayLocker_IndependentKeys(t *testing.T) {
	l := newDayLocker()

	unlockA := l.Lock("emp-1", day(2))
	done := make(chan struct{})
	go func() {
		unlock := l.Lock("emp-2", day(2))
		unlock()
		unlock = l.Lock("emp-1", day(3))
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("different keys blocked each other")
	}
	assert.Equal(t, 1, l.size())
	unlockA()
	assert.Equal(t, 0, l.size())
}
