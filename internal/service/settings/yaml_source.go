package settings

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/geo"
	"gopkg.in/yaml.v3"
)

// yamlFile is the on-disk layout:
//
//	settings:
//	  work_start_time: "08:30:00"
//	  late_threshold_minutes: 10
//	offices:
//	  - id: hq
//	    name: Head Office
//	    latitude: 13.7460
//	    longitude: 100.5352
//	    radius_meters: 100
//	    is_active: true
type yamlFile struct {
	Settings map[string]string `yaml:"settings"`
	Offices  []geo.Office      `yaml:"offices"`
}

type yamlSource struct {
	path string
	base settings.Snapshot
}

// NewYAMLSource reads settings from a file on every Load, so edits are
// picked up on the next refresh.
func NewYAMLSource(path string, base settings.Snapshot) settings.Source {
	return &yamlSource{path: path, base: base}
}

// Load implements settings.Source.
func (s *yamlSource) Load(ctx context.Context) (settings.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return settings.Snapshot{}, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("read settings file: %w", err)
	}
	return parseYAML(raw, s.base)
}

func parseYAML(raw []byte, base settings.Snapshot) (settings.Snapshot, error) {
	var parsed yamlFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return settings.Snapshot{}, fmt.Errorf("unmarshal yaml: %w", err)
	}

	snap := base
	snap.Offices = nil
	for _, o := range parsed.Offices {
		if errs := geo.ValidateCoordinates(o.Point()); len(errs) > 0 {
			return settings.Snapshot{}, fmt.Errorf("%w: office %q: %s", settings.ErrInvalidSettingType, o.ID, errs.Error())
		}
		snap.Offices = append(snap.Offices, o)
	}

	if err := settings.ApplyValues(&snap, parsed.Settings); err != nil {
		return settings.Snapshot{}, err
	}
	return snap, nil
}
