package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	attendanceservice "github.com/cmlabs-hris/line-attendance-go/internal/service/attendance"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	benefitsRepo   employee.BenefitsRepository
	attendanceRepo attendance.DayRecordRepository
	settings       settings.Provider
	notifier       notification.Service
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	benefitsRepo employee.BenefitsRepository,
	attendanceRepo attendance.DayRecordRepository,
	settingsProvider settings.Provider,
	notifier notification.Service,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		benefitsRepo:   benefitsRepo,
		attendanceRepo: attendanceRepo,
		settings:       settingsProvider,
		notifier:       notifier,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// ListPending implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListPending(ctx context.Context) ([]employee.EmployeeResponse, error) {
	status := string(employee.StatusPending)
	resp, err := s.List(ctx, employee.EmployeeFilter{Status: &status, Page: 1, Limit: 100})
	if err != nil {
		return nil, err
	}
	return resp.Employees, nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

// Approve implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Approve(ctx context.Context, req employee.ApproveEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	approved, err := s.employeeRepo.Approve(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee approved", "employee_id", approved.ID, "approved_by", req.ApprovedBy)
	s.notify(notification.Message{
		Type:       notification.TypeEmployeeApproved,
		EmployeeID: approved.ID,
		LineUserID: approved.LineUserID,
		Title:      "Registration approved",
		Text:       fmt.Sprintf("Welcome %s! Your account %s is active, you can now check in.", approved.Name, approved.EmployeeCode),
	})

	return employee.ToResponse(approved), nil
}

// Reject implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Reject(ctx context.Context, req employee.RejectEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	rejected, err := s.employeeRepo.Reject(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee rejected", "employee_id", rejected.ID)
	s.notify(notification.Message{
		Type:       notification.TypeEmployeeRejected,
		EmployeeID: rejected.ID,
		LineUserID: rejected.LineUserID,
		Title:      "Registration rejected",
		Text:       "Your registration was not approved. Reason: " + req.Reason,
	})

	return employee.ToResponse(rejected), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.Update(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(updated), nil
}

// GetBenefits implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetBenefits(ctx context.Context, employeeID string, now time.Time) (employee.BenefitsResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.BenefitsResponse{}, err
	}

	snap, err := s.settings.Get(ctx)
	if err != nil {
		return employee.BenefitsResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	policy := snap.Policy

	local := now
	if policy.Location != nil {
		local = now.In(policy.Location)
	}

	b, err := s.benefitsRepo.GetOrCreate(ctx, employeeID, local.Year())
	if err != nil {
		return employee.BenefitsResponse{}, err
	}

	period := attendance.MonthPeriod(local.Year(), local.Month())
	records, err := s.attendanceRepo.ListByPeriod(ctx, period, &employeeID)
	if err != nil {
		return employee.BenefitsResponse{}, fmt.Errorf("failed to list month records: %w", err)
	}
	summary := attendanceservice.Summarize(records, period, policy)

	resp := employee.BenefitsResponse{
		EmployeeID:            b.EmployeeID,
		Year:                  b.Year,
		VacationDaysTotal:     b.VacationDaysTotal,
		VacationDaysUsed:      b.VacationDaysUsed,
		VacationDaysRemaining: max(0, b.VacationDaysTotal-b.VacationDaysUsed),
		SickDaysTotal:         b.SickDaysTotal,
		SickDaysUsed:          b.SickDaysUsed,
		SickDaysRemaining:     max(0, b.SickDaysTotal-b.SickDaysUsed),
		SocialSecurityNumber:  b.SocialSecurityNumber,
		BonusAmount:           b.BonusAmount,
		MonthOvertimeHours:    summary.TotalOvertimeHours,
	}
	if e.Salary != nil {
		pay := attendanceservice.OvertimePay(summary.TotalOvertimeHours, *e.Salary, policy)
		resp.MonthOvertimePay = &pay
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) notify(msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Enqueue(msg); err != nil {
		slog.Warn("Failed to enqueue employee notification", "error", err, "type", msg.Type, "employee_id", msg.EmployeeID)
	}
}
