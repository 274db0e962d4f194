package attendance

import "errors"

// Attendance domain errors
var (
	// State transition errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Geofence errors
	ErrOutOfRangeLocation  = errors.New("you are outside the allowed office radius")
	ErrNoOfficeConfigured  = errors.New("no active office location is configured")
	ErrInvalidReportPeriod = errors.New("invalid report period")

	// ErrComputation is logged, never returned to callers.
	ErrComputation = errors.New("non-finite time computation")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
