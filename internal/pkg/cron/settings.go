package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
)

// RegisterSettingsRefresh keeps the settings cache warm so requests rarely
// pay for a reload. The provider is loaded at startup, so the first refresh
// waits one interval.
func RegisterSettingsRefresh(scheduler *Scheduler, provider settings.Provider, interval time.Duration) {
	scheduler.AddJob(Job{
		Name:     "refresh_settings",
		Interval: interval,
		Timeout:  30 * time.Second,
		Delayed:  true,
		Fn: func(ctx context.Context) error {
			_, err := provider.Refresh(ctx)
			return err
		},
	})
}
