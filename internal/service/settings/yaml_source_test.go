package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
settings:
  company_name: Siam Widgets
  work_start_time: "08:30:00"
  late_threshold_minutes: "10"
  overtime_rate: "2"
offices:
  - id: hq
    name: Head Office
    latitude: 13.7460
    longitude: 100.5352
    radius_meters: 150
    is_active: true
  - id: branch
    name: Old Branch
    latitude: 13.80
    longitude: 100.55
    radius_meters: 100
    is_active: false
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLSource_Load(t *testing.T) {
	base := settings.DefaultSnapshot("Default Co", time.UTC, true)
	src := NewYAMLSource(writeFile(t, sampleYAML), base)

	snap, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Siam Widgets", snap.CompanyName)
	assert.Equal(t, settings.MustParseTimeOfDay("08:30"), snap.Policy.StandardStartTime)
	assert.Equal(t, 10, snap.Policy.LateThresholdMinutes)
	assert.Equal(t, 2.0, snap.Policy.OvertimeMultiplier)
	// untouched keys keep their defaults
	assert.Equal(t, settings.MustParseTimeOfDay("18:00"), snap.Policy.StandardEndTime)

	require.Len(t, snap.Offices, 2)
	active := snap.ActiveOffices()
	require.Len(t, active, 1)
	assert.Equal(t, "hq", active[0].ID)
	assert.Equal(t, 150.0, active[0].RadiusMeters)
}

func TestYAMLSource_DefaultOfficeWhenNoneListed(t *testing.T) {
	base := settings.DefaultSnapshot("Default Co", time.UTC, true)
	src := NewYAMLSource(writeFile(t, "settings:\n  checkin_radius: \"250\"\n"), base)

	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Offices, 1)
	assert.Equal(t, 250.0, snap.Offices[0].RadiusMeters)
	assert.Equal(t, 13.7460, snap.Offices[0].Latitude)
}

func TestYAMLSource_Errors(t *testing.T) {
	base := settings.DefaultSnapshot("Default Co", time.UTC, true)

	_, err := NewYAMLSource(filepath.Join(t.TempDir(), "missing.yaml"), base).Load(context.Background())
	assert.Error(t, err)

	_, err = NewYAMLSource(writeFile(t, "offices:\n  - id: bad\n    latitude: 123\n    longitude: 0\n"), base).Load(context.Background())
	assert.ErrorIs(t, err, settings.ErrInvalidSettingType)

	_, err = NewYAMLSource(writeFile(t, "settings:\n  work_start_time: \"19:00\"\n"), base).Load(context.Background())
	assert.ErrorIs(t, err, settings.ErrInvalidPolicy)
}
