package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceCheckIn      NotificationType = "attendance_check_in"
	TypeAttendanceCheckOut     NotificationType = "attendance_check_out"
	TypeAttendanceMarkedAbsent NotificationType = "attendance_marked_absent"
	TypeLeaveSubmitted         NotificationType = "leave_submitted"
	TypeLeaveApproved          NotificationType = "leave_approved"
	TypeLeaveRejected          NotificationType = "leave_rejected"
	TypeEmployeeRegistered     NotificationType = "employee_registered"
	TypeEmployeeApproved       NotificationType = "employee_approved"
	TypeEmployeeRejected       NotificationType = "employee_rejected"
)

// HRFacing reports whether HR staff, rather than the employee, is the audience.
func (t NotificationType) HRFacing() bool {
	switch t {
	case TypeAttendanceMarkedAbsent, TypeLeaveSubmitted, TypeEmployeeRegistered:
		return true
	}
	return false
}

// Message is a plain payload handed to every notifier.
type Message struct {
	ID         string
	Type       NotificationType
	EmployeeID string
	// LineUserID is empty for messages with no employee recipient
	LineUserID string
	Title      string
	Text       string
	Data       map[string]interface{}
	CreatedAt  time.Time
}
