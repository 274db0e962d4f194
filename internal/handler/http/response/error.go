package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		ErrorWithCode(w, http.StatusConflict, "ALREADY_CHECKED_IN", "Already checked in for this date")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		ErrorWithCode(w, http.StatusConflict, "ALREADY_CHECKED_OUT", "Already checked out for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		ErrorWithCode(w, http.StatusBadRequest, "NOT_CHECKED_IN", "Must check in before checking out")
	case errors.Is(err, attendance.ErrOutOfRangeLocation):
		ErrorWithCode(w, http.StatusForbidden, "OUT_OF_RANGE", err.Error())
	case errors.Is(err, attendance.ErrNoOfficeConfigured):
		ErrorWithCode(w, http.StatusForbidden, "NO_OFFICE_CONFIGURED", "No active office location is configured")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrInvalidLineIDToken):
		Unauthorized(w, "Invalid LINE id token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Access denied. HR admin privilege required")
	case errors.Is(err, auth.ErrEmployeeAccessRequired):
		Forbidden(w, "Access denied. Active employee required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrLineUserAlreadyExists):
		Conflict(w, "LINE user is already registered")
	case errors.Is(err, employee.ErrEmployeeNotPending):
		Conflict(w, "Employee is not pending approval")
	case errors.Is(err, employee.ErrEmployeePending):
		ErrorWithCode(w, http.StatusForbidden, "PENDING_APPROVAL", "Account is waiting for HR approval")
	case errors.Is(err, employee.ErrEmployeeInactive):
		ErrorWithCode(w, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is inactive")
	case errors.Is(err, employee.ErrNoFieldsToUpdate):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "Leave request overlaps an existing request")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
