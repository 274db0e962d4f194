package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"golang.org/x/sync/singleflight"
)

// Clock returns the current time; injected so TTL expiry can be tested.
type Clock func() time.Time

type provider struct {
	source settings.Source
	ttl    time.Duration
	now    Clock

	mu      sync.RWMutex
	current *settings.Snapshot
	expired bool

	group singleflight.Group
}

// NewProvider caches snapshots from source for ttl.
func NewProvider(source settings.Source, ttl time.Duration, clock Clock) settings.Provider {
	if clock == nil {
		clock = time.Now
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &provider{
		source: source,
		ttl:    ttl,
		now:    clock,
	}
}

// Get implements settings.Provider.
func (p *provider) Get(ctx context.Context) (settings.Snapshot, error) {
	p.mu.RLock()
	current, expired := p.current, p.expired
	p.mu.RUnlock()

	if current != nil && !expired && p.now().Sub(current.LoadedAt) < p.ttl {
		return *current, nil
	}

	snap, err := p.Refresh(ctx)
	if err != nil {
		if current != nil {
			slog.Warn("Settings refresh failed, serving stale snapshot",
				"error", err,
				"loaded_at", current.LoadedAt,
			)
			return *current, nil
		}
		return settings.Snapshot{}, fmt.Errorf("%w: %w", settings.ErrNoSnapshot, err)
	}
	return snap, nil
}

// Refresh implements settings.Provider. Concurrent callers share one load.
func (p *provider) Refresh(ctx context.Context) (settings.Snapshot, error) {
	v, err, _ := p.group.Do("settings", func() (interface{}, error) {
		snap, err := p.source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		snap.LoadedAt = p.now()

		p.mu.Lock()
		p.current = &snap
		p.expired = false
		p.mu.Unlock()

		slog.Debug("Settings loaded", "offices", len(snap.Offices), "company", snap.CompanyName)
		return snap, nil
	})
	if err != nil {
		return settings.Snapshot{}, err
	}
	return v.(settings.Snapshot), nil
}

// Invalidate implements settings.Provider. The old snapshot is kept as a
// fallback for a failing reload.
func (p *provider) Invalidate() {
	p.mu.Lock()
	p.expired = true
	p.mu.Unlock()
}
