package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

const maxLeaveDays = 30

type CreateLeaveRequest struct {
	EmployeeID string `json:"-"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
	Reason     string `json:"reason"`

	// Today is the requester's local date, set by the service
	Today time.Time `json:"-"`

	startDate time.Time
	endDate   time.Time
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	validTypes := make([]string, len(AllLeaveTypes))
	for i, t := range AllLeaveTypes {
		validTypes[i] = string(t)
	}
	if validator.IsEmpty(r.LeaveType) {
		errs.Add("leave_type", "leave_type is required")
	} else if !validator.IsInSlice(r.LeaveType, validTypes) {
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(validTypes, ", "))
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}

	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("end_date", "end_date must be on or after start_date")
		} else if total, _ := CountDays(start, end); total > maxLeaveDays {
			errs.Add("end_date", "leave must not exceed 30 consecutive days")
		}
		// sick leave may be filed after the fact
		if LeaveType(r.LeaveType) != TypeSick && !r.Today.IsZero() && start.Before(r.Today) {
			errs.Add("start_date", "start_date must not be in the past except for sick leave")
		}
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if !validator.LengthBetween(r.Reason, 10, 500) {
		errs.Add("reason", "reason must be between 10 and 500 characters")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.startDate, r.endDate = start, end
	return nil
}

// Dates returns the parsed range; only valid after Validate succeeded.
func (r *CreateLeaveRequest) Dates() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type DecideLeaveRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Reason     *string `json:"reason,omitempty"`
}

// Validate requires a reason only when rejecting.
func (r *DecideLeaveRequest) Validate(rejecting bool) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if rejecting && (r.Reason == nil || !validator.LengthBetween(*r.Reason, 1, 500)) {
		errs.Add("reason", "reason is required and must be at most 500 characters")
	}
	return errs.Err()
}

type LeaveRequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil {
		valid := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
		if !validator.IsInSlice(*f.Status, valid) {
			errs.Add("status", "status must be one of: pending, approved, rejected")
		}
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    *string            `json:"employee_name,omitempty"`
	EmployeeCode    *string            `json:"employee_code,omitempty"`
	LeaveType       LeaveType          `json:"leave_type"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	TotalDays       int                `json:"total_days"`
	WorkingDays     int                `json:"working_days"`
	Reason          string             `json:"reason"`
	Status          LeaveRequestStatus `json:"status"`
	ReviewedBy      *string            `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time         `json:"reviewed_at,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		EmployeeCode:    r.EmployeeCode,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		TotalDays:       r.TotalDays,
		WorkingDays:     r.WorkingDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Requests   []LeaveRequestResponse `json:"requests"`
}
