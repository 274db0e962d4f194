package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request has already been processed")
	ErrOverlappingLeave             = errors.New("leave request overlaps an existing pending or approved request")
)
