package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// HasOverlap reports a pending or approved request of the employee touching [start, end]
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	// Decide moves a pending request to status; ErrLeaveRequestAlreadyProcessed otherwise
	Decide(ctx context.Context, id string, status LeaveRequestStatus, reviewerID string, reason *string) (LeaveRequest, error)

	// EmployeesOnLeave returns the employees with approved leave covering date
	EmployeesOnLeave(ctx context.Context, date time.Time) (map[string]bool, error)
}
