package settings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingSource struct {
	loads   atomic.Int32
	fail    atomic.Bool
	delay   time.Duration
	company string
}

func (s *countingSource) Load(context.Context) (settings.Snapshot, error) {
	n := s.loads.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail.Load() {
		return settings.Snapshot{}, errors.New("database unavailable")
	}
	snap := settings.DefaultSnapshot(s.company, time.UTC, true)
	snap.CompanyName = s.company + "#" + string(rune('0'+n))
	return snap, nil
}

func TestProvider_CachesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	source := &countingSource{company: "Acme"}
	p := NewProvider(source, 5*time.Minute, clock.Now)
	ctx := context.Background()

	first, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme#1", first.CompanyName)

	clock.Advance(4 * time.Minute)
	cached, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme#1", cached.CompanyName)
	assert.Equal(t, int32(1), source.loads.Load())

	clock.Advance(2 * time.Minute)
	reloaded, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme#2", reloaded.CompanyName)
	assert.Equal(t, int32(2), source.loads.Load())
}

func TestProvider_ServesStaleSnapshotOnFailure(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	source := &countingSource{company: "Acme"}
	p := NewProvider(source, time.Minute, clock.Now)
	ctx := context.Background()

	_, err := p.Get(ctx)
	require.NoError(t, err)

	source.fail.Store(true)
	clock.Advance(2 * time.Minute)

	stale, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme#1", stale.CompanyName)

	_, err = p.Refresh(ctx)
	assert.Error(t, err)
}

func TestProvider_NoSnapshotYet(t *testing.T) {
	source := &countingSource{company: "Acme"}
	source.fail.Store(true)
	p := NewProvider(source, time.Minute, nil)

	_, err := p.Get(context.Background())
	assert.ErrorIs(t, err, settings.ErrNoSnapshot)
}

func TestProvider_InvalidateForcesReload(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	source := &countingSource{company: "Acme"}
	p := NewProvider(source, time.Hour, clock.Now)
	ctx := context.Background()

	_, err := p.Get(ctx)
	require.NoError(t, err)

	p.Invalidate()
	snap, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme#2", snap.CompanyName)
}

func TestProvider_CoalescesConcurrentLoads(t *testing.T) {
	source := &countingSource{company: "Acme", delay: 50 * time.Millisecond}
	p := NewProvider(source, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Get(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), source.loads.Load())
}
