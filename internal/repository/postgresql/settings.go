package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/geo"
)

type settingsSource struct {
	db   *database.DB
	base settings.Snapshot
}

// NewSettingsSource loads system_settings and office_locations on top of base.
func NewSettingsSource(db *database.DB, base settings.Snapshot) settings.Source {
	return &settingsSource{db: db, base: base}
}

// Load implements settings.Source.
func (s *settingsSource) Load(ctx context.Context) (settings.Snapshot, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `
		SELECT setting_key, setting_value, setting_type
		FROM system_settings
		WHERE is_active = TRUE
	`)
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("failed to query system settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value, valueType string
		if err := rows.Scan(&key, &value, &valueType); err != nil {
			return settings.Snapshot{}, fmt.Errorf("failed to scan system setting: %w", err)
		}
		if valueType == "json" {
			// no json-typed key feeds the attendance policy
			continue
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return settings.Snapshot{}, fmt.Errorf("failed to iterate system settings: %w", err)
	}

	offices, err := s.loadOffices(ctx, q)
	if err != nil {
		return settings.Snapshot{}, err
	}

	snap := s.base
	snap.Offices = offices
	if err := settings.ApplyValues(&snap, values); err != nil {
		return settings.Snapshot{}, err
	}
	return snap, nil
}

func (s *settingsSource) loadOffices(ctx context.Context, q database.Querier) ([]geo.Office, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, COALESCE(address, ''), latitude, longitude, radius_meters, is_active
		FROM office_locations
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query office locations: %w", err)
	}
	defer rows.Close()

	var offices []geo.Office
	for rows.Next() {
		var o geo.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude, &o.RadiusMeters, &o.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan office location: %w", err)
		}
		o.Name = strings.TrimSpace(o.Name)
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate office locations: %w", err)
	}
	return offices, nil
}
