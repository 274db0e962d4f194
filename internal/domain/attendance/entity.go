package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusHoliday Status = "holiday"
)

// State is derived from the record timestamps and never stored.
type State string

const (
	StateNoRecord   State = "NO_RECORD"
	StateCheckedIn  State = "CHECKED_IN"
	StateCheckedOut State = "CHECKED_OUT"
)

type Action string

const (
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
)

// DayRecord is the single attendance entry for one employee on one calendar date.
type DayRecord struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
	WorkHours     float64
	OvertimeHours float64
	Status        Status
	Notes         *string

	CheckInLatitude        *float64
	CheckInLongitude       *float64
	CheckInAccuracy        *string
	CheckInDistanceMeters  *float64
	CheckOutLatitude       *float64
	CheckOutLongitude      *float64
	CheckOutAccuracy       *string
	CheckOutDistanceMeters *float64
	OfficeID               *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// State works on a nil receiver so callers can pass a missing row straight through.
func (r *DayRecord) State() State {
	switch {
	case r == nil || r.CheckInTime == nil:
		return StateNoRecord
	case r.CheckOutTime == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// DateOnly truncates t to its calendar date in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
