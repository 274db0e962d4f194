package leave

import (
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
)

type LeaveType string

const (
	TypeSick      LeaveType = "sick"
	TypePersonal  LeaveType = "personal"
	TypeVacation  LeaveType = "vacation"
	TypeEmergency LeaveType = "emergency"
	TypeMaternity LeaveType = "maternity"
	TypePaternity LeaveType = "paternity"
)

var AllLeaveTypes = []LeaveType{
	TypeSick, TypePersonal, TypeVacation, TypeEmergency, TypeMaternity, TypePaternity,
}

// BenefitKind returns the yearly counter an approved leave of this type is
// booked against. ok is false for types that draw on no counter.
func (t LeaveType) BenefitKind() (employee.BenefitKind, bool) {
	switch t {
	case TypeSick:
		return employee.BenefitSick, true
	case TypeVacation:
		return employee.BenefitVacation, true
	}
	return "", false
}

type LeaveRequestStatus string

const (
	StatusPending  LeaveRequestStatus = "pending"
	StatusApproved LeaveRequestStatus = "approved"
	StatusRejected LeaveRequestStatus = "rejected"
)

type LeaveRequest struct {
	ID              string
	EmployeeID      string
	LeaveType       LeaveType
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	WorkingDays     int
	Reason          string
	Status          LeaveRequestStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
	LineUserID   *string
}

// CountDays returns the inclusive calendar days and the Monday to Friday days
// between start and end.
func CountDays(start, end time.Time) (total, working int) {
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		total++
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			working++
		}
	}
	return total, working
}
