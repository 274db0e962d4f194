package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/geo"
)

// Keys of the system_settings table.
const (
	KeyCompanyName          = "company_name"
	KeyWorkStartTime        = "work_start_time"
	KeyWorkEndTime          = "work_end_time"
	KeyLateThresholdMinutes = "late_threshold_minutes"
	KeyMinWorkHoursPerDay   = "min_work_hours_per_day"
	KeyLunchStartTime       = "lunch_start_time"
	KeyLunchEndTime         = "lunch_end_time"
	KeyOvertimeRate         = "overtime_rate"
	KeyWorkingDaysPerMonth  = "working_days_per_month"
	KeyCheckinRadius        = "checkin_radius"
	KeyOfficeLatitude       = "office_latitude"
	KeyOfficeLongitude      = "office_longitude"
	KeyGeofenceEnforced     = "geofence_enforced"
)

// DefaultSnapshot is what every source starts from before applying stored values.
func DefaultSnapshot(companyName string, loc *time.Location, geofenceEnforced bool) Snapshot {
	return Snapshot{
		CompanyName:      companyName,
		Policy:           DefaultWorkPolicy(loc),
		GeofenceEnforced: geofenceEnforced,
	}
}

// ApplyValues overlays key/value settings on snap. Unknown keys are ignored.
// When no office is configured the legacy office_* and checkin_radius keys
// describe a single default office.
func ApplyValues(snap *Snapshot, values map[string]string) error {
	office := DefaultOffice()
	officeTouched := false

	for key, raw := range values {
		raw = strings.TrimSpace(raw)
		var err error

		switch key {
		case KeyCompanyName:
			if raw != "" {
				snap.CompanyName = raw
			}
		case KeyWorkStartTime:
			snap.Policy.StandardStartTime, err = ParseTimeOfDay(raw)
		case KeyWorkEndTime:
			snap.Policy.StandardEndTime, err = ParseTimeOfDay(raw)
		case KeyLunchStartTime:
			snap.Policy.LunchStart, err = ParseTimeOfDay(raw)
		case KeyLunchEndTime:
			snap.Policy.LunchEnd, err = ParseTimeOfDay(raw)
		case KeyLateThresholdMinutes:
			snap.Policy.LateThresholdMinutes, err = parseInt(key, raw)
		case KeyWorkingDaysPerMonth:
			snap.Policy.WorkingDaysPerMonth, err = parseInt(key, raw)
		case KeyMinWorkHoursPerDay:
			snap.Policy.StandardWorkHoursPerDay, err = parseFloat(key, raw)
		case KeyOvertimeRate:
			snap.Policy.OvertimeMultiplier, err = parseFloat(key, raw)
		case KeyCheckinRadius:
			office.RadiusMeters, err = parseFloat(key, raw)
			officeTouched = true
		case KeyOfficeLatitude:
			office.Latitude, err = parseFloat(key, raw)
			officeTouched = true
		case KeyOfficeLongitude:
			office.Longitude, err = parseFloat(key, raw)
			officeTouched = true
		case KeyGeofenceEnforced:
			snap.GeofenceEnforced, err = parseBool(key, raw)
		}

		if err != nil {
			return err
		}
	}

	if len(snap.Offices) == 0 {
		if errs := geo.ValidateCoordinates(office.Point()); officeTouched && len(errs) > 0 {
			return fmt.Errorf("%w: default office: %s", ErrInvalidSettingType, errs.Error())
		}
		snap.Offices = []geo.Office{office}
	}

	return snap.Policy.Validate()
}

func parseInt(key, raw string) (int, error) {
	f, err := parseFloat(key, raw)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseFloat(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidSettingType, key, raw)
	}
	return v, nil
}

func parseBool(key, raw string) (bool, error) {
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSettingType, key, raw)
	}
	return v, nil
}
