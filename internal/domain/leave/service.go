package leave

import (
	"context"
)

type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, employeeID string, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)

	// HR
	List(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	Approve(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
}
