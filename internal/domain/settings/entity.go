package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/geo"
)

// TimeOfDay is an offset from local midnight.
type TimeOfDay time.Duration

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	limits := []int{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}

	var d time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) != 2 || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		d += time.Duration(n) * units[i]
	}
	return TimeOfDay(d), nil
}

// MustParseTimeOfDay panics on malformed input; for constants only.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// On anchors the time of day on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(t))
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// WorkPolicy holds the working-hour boundaries every evaluation is made against.
type WorkPolicy struct {
	StandardStartTime       TimeOfDay      `json:"standard_start_time"`
	StandardEndTime         TimeOfDay      `json:"standard_end_time"`
	LateThresholdMinutes    int            `json:"late_threshold_minutes"`
	StandardWorkHoursPerDay float64        `json:"standard_work_hours_per_day"`
	LunchStart              TimeOfDay      `json:"lunch_start"`
	LunchEnd                TimeOfDay      `json:"lunch_end"`
	OvertimeMultiplier      float64        `json:"overtime_multiplier"`
	WorkingDaysPerMonth     int            `json:"working_days_per_month"`
	Location                *time.Location `json:"-"`
}

func DefaultWorkPolicy(loc *time.Location) WorkPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return WorkPolicy{
		StandardStartTime:       MustParseTimeOfDay("09:00:00"),
		StandardEndTime:         MustParseTimeOfDay("18:00:00"),
		LateThresholdMinutes:    15,
		StandardWorkHoursPerDay: 8,
		LunchStart:              MustParseTimeOfDay("12:00:00"),
		LunchEnd:                MustParseTimeOfDay("13:00:00"),
		OvertimeMultiplier:      1.5,
		WorkingDaysPerMonth:     22,
		Location:                loc,
	}
}

func (p WorkPolicy) Validate() error {
	switch {
	case p.StandardEndTime <= p.StandardStartTime:
		return fmt.Errorf("%w: work end %s must be after start %s", ErrInvalidPolicy, p.StandardEndTime, p.StandardStartTime)
	case p.LunchEnd < p.LunchStart:
		return fmt.Errorf("%w: lunch end %s is before lunch start %s", ErrInvalidPolicy, p.LunchEnd, p.LunchStart)
	case p.LateThresholdMinutes < 0:
		return fmt.Errorf("%w: late threshold must not be negative", ErrInvalidPolicy)
	case p.StandardWorkHoursPerDay <= 0:
		return fmt.Errorf("%w: standard work hours must be positive", ErrInvalidPolicy)
	case p.OvertimeMultiplier < 0:
		return fmt.Errorf("%w: overtime multiplier must not be negative", ErrInvalidPolicy)
	case p.WorkingDaysPerMonth <= 0:
		return fmt.Errorf("%w: working days per month must be positive", ErrInvalidPolicy)
	}
	return nil
}

// DefaultOffice is used when no office location has been configured.
func DefaultOffice() geo.Office {
	return geo.Office{
		ID:           "default",
		Name:         "Head Office",
		Latitude:     13.7460,
		Longitude:    100.5352,
		RadiusMeters: 100,
		IsActive:     true,
	}
}

// Snapshot is an immutable view of the runtime settings.
type Snapshot struct {
	CompanyName      string       `json:"company_name"`
	Policy           WorkPolicy   `json:"policy"`
	Offices          []geo.Office `json:"offices"`
	GeofenceEnforced bool         `json:"geofence_enforced"`
	LoadedAt         time.Time    `json:"loaded_at"`
}

// ActiveOffices filters out disabled offices.
func (s Snapshot) ActiveOffices() []geo.Office {
	out := make([]geo.Office, 0, len(s.Offices))
	for _, o := range s.Offices {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out
}
