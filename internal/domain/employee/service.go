package employee

import (
	"context"
	"time"
)

type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	ListPending(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)

	Approve(ctx context.Context, req ApproveEmployeeRequest) (EmployeeResponse, error)
	Reject(ctx context.Context, req RejectEmployeeRequest) (EmployeeResponse, error)

	// Update is the single HR update contract, see UpdateEmployeeRequest
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	GetBenefits(ctx context.Context, employeeID string, now time.Time) (BenefitsResponse, error)
}
