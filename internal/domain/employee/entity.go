package employee

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Employee struct {
	ID              string
	LineUserID      string
	EmployeeCode    string
	Name            string
	DisplayName     *string
	ProfileImageURL *string
	Position        *string
	Department      *string
	Phone           *string
	Email           *string
	Salary          *float64
	Status          Status
	RejectionReason *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	HireDate        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Benefits tracks yearly leave entitlements.
type Benefits struct {
	EmployeeID           string
	Year                 int
	VacationDaysTotal    int
	VacationDaysUsed     int
	SickDaysTotal        int
	SickDaysUsed         int
	SocialSecurityNumber *string
	BonusAmount          float64
	UpdatedAt            time.Time
}

const (
	DefaultVacationDays = 10
	DefaultSickDays     = 30
)

func DefaultBenefits(employeeID string, year int) Benefits {
	return Benefits{
		EmployeeID:        employeeID,
		Year:              year,
		VacationDaysTotal: DefaultVacationDays,
		SickDaysTotal:     DefaultSickDays,
	}
}

// BenefitKind selects which days counter leave usage is booked against.
type BenefitKind string

const (
	BenefitVacation BenefitKind = "vacation"
	BenefitSick     BenefitKind = "sick"
)

// Admin is an HR staff account for the admin panel.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}
