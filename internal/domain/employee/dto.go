package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID              string    `json:"id"`
	LineUserID      string    `json:"line_user_id"`
	EmployeeCode    string    `json:"employee_code"`
	Name            string    `json:"name"`
	DisplayName     *string   `json:"display_name,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	Position        *string   `json:"position,omitempty"`
	Department      *string   `json:"department,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Salary          *float64  `json:"salary,omitempty"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	ApprovedAt      *string   `json:"approved_at,omitempty"`
	HireDate        *string   `json:"hire_date,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              e.ID,
		LineUserID:      e.LineUserID,
		EmployeeCode:    e.EmployeeCode,
		Name:            e.Name,
		DisplayName:     e.DisplayName,
		ProfileImageURL: e.ProfileImageURL,
		Position:        e.Position,
		Department:      e.Department,
		Phone:           e.Phone,
		Email:           e.Email,
		Salary:          e.Salary,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.ApprovedAt != nil {
		s := e.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if e.HireDate != nil {
		s := e.HireDate.Format("2006-01-02")
		resp.HireDate = &s
	}
	return resp
}

type EmployeeFilter struct {
	Status *string `json:"status,omitempty"`
	Search *string `json:"search,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
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
		valid := []string{string(StatusPending), string(StatusActive), string(StatusInactive)}
		if !validator.IsInSlice(*f.Status, valid) {
			errs.Add("status", "status must be one of: pending, active, inactive")
		}
	}

	return errs.Err()
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

// UpdateEmployeeRequest is the one HR update contract. Every field is optional
// but at least one must be present; a present field is validated on its own.
type UpdateEmployeeRequest struct {
	ID       string   `json:"-"`
	Status   *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	Position *string  `json:"position" validate:"omitempty,notblank,max=100"`
	Salary   *float64 `json:"salary" validate:"omitempty,gte=0"`
	Phone    *string  `json:"phone" validate:"omitempty,thphone"`
	Email    *string  `json:"email" validate:"omitempty,email,max=255"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.Status == nil && r.Position == nil && r.Salary == nil && r.Phone == nil && r.Email == nil {
		return validator.ValidationErrors{{Field: "body", Message: ErrNoFieldsToUpdate.Error()}}
	}

	if r.Position != nil {
		trimmed := strings.TrimSpace(*r.Position)
		r.Position = &trimmed
	}
	if r.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &lowered
	}

	return validator.Struct(r)
}

type RejectEmployeeRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.LengthBetween(r.Reason, 1, 500) {
		errs.Add("reason", "reason is required and must be at most 500 characters")
	}
	return errs.Err()
}

type ApproveEmployeeRequest struct {
	ID         string   `json:"-"`
	ApprovedBy string   `json:"-"`
	Position   *string  `json:"position,omitempty"`
	Department *string  `json:"department,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
}

func (r *ApproveEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Salary != nil && *r.Salary < 0 {
		errs.Add("salary", "salary must be greater than or equal to 0")
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs.Add("position", "position must not be blank")
	}
	return errs.Err()
}

type BenefitsResponse struct {
	EmployeeID            string   `json:"employee_id"`
	Year                  int      `json:"year"`
	VacationDaysTotal     int      `json:"vacation_days_total"`
	VacationDaysUsed      int      `json:"vacation_days_used"`
	VacationDaysRemaining int      `json:"vacation_days_remaining"`
	SickDaysTotal         int      `json:"sick_days_total"`
	SickDaysUsed          int      `json:"sick_days_used"`
	SickDaysRemaining     int      `json:"sick_days_remaining"`
	SocialSecurityNumber  *string  `json:"social_security_number,omitempty"`
	BonusAmount           float64  `json:"bonus_amount"`
	MonthOvertimeHours    float64  `json:"month_overtime_hours"`
	MonthOvertimePay      *float64 `json:"month_overtime_pay,omitempty"`
}
