package employee

import (
	"context"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (Employee, error)

	// Create assigns the next EMPxxxxx code when EmployeeCode is empty
	Create(ctx context.Context, newEmployee Employee) (Employee, error)

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)

	// Update applies only the non-nil fields of req
	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)

	// Approve and Reject only act on pending employees, else ErrEmployeeNotPending
	Approve(ctx context.Context, req ApproveEmployeeRequest) (Employee, error)
	Reject(ctx context.Context, req RejectEmployeeRequest) (Employee, error)
}

type BenefitsRepository interface {
	// GetOrCreate returns the year's benefits, creating defaults on first access
	GetOrCreate(ctx context.Context, employeeID string, year int) (Benefits, error)

	// AddUsage books days against the vacation or sick counter
	AddUsage(ctx context.Context, employeeID string, year int, kind BenefitKind, days int) error
}

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (Admin, error)
	TouchLastLogin(ctx context.Context, id string) error
}
