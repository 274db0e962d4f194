package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	benefitsRepo employee.BenefitsRepository
	transactor   database.Transactor
	settings     settings.Provider
	notifier     notification.Service
	now          func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	benefitsRepo employee.BenefitsRepository,
	transactor database.Transactor,
	settingsProvider settings.Provider,
	notifier notification.Service,
	clock func() time.Time,
) leave.LeaveService {
	if clock == nil {
		clock = time.Now
	}
	return &LeaveServiceImpl{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		benefitsRepo: benefitsRepo,
		transactor:   transactor,
		settings:     settingsProvider,
		notifier:     notifier,
		now:          clock,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	snap, err := s.settings.Get(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	req.Today = attendance.DateOnly(s.now(), snap.Policy.Location)

	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	start, end := req.Dates()
	overlap, err := s.leaveRepo.HasOverlap(ctx, req.EmployeeID, start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if overlap {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeave
	}

	total, working := leave.CountDays(start, end)
	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveType:   leave.LeaveType(req.LeaveType),
		StartDate:   start,
		EndDate:     end,
		TotalDays:   total,
		WorkingDays: working,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	created.EmployeeName = &emp.Name
	created.EmployeeCode = &emp.EmployeeCode

	s.notify(notification.Message{
		Type:       notification.TypeLeaveSubmitted,
		EmployeeID: emp.ID,
		Title:      "Leave request submitted",
		Text: fmt.Sprintf("%s (%s) requested %s leave %s to %s (%d working days): %s",
			emp.Name, emp.EmployeeCode, created.LeaveType,
			start.Format("2006-01-02"), end.Format("2006-01-02"), working, created.Reason),
		Data: map[string]interface{}{"leave_request_id": created.ID},
	})

	return leave.ToResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	filter.EmployeeID = &employeeID
	return s.List(ctx, filter)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

// Approve implements leave.LeaveService. The decision and the benefit usage
// commit together.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(false); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var approved leave.LeaveRequest
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		approved, err = s.leaveRepo.Decide(txCtx, req.ID, leave.StatusApproved, req.ReviewerID, nil)
		if err != nil {
			return err
		}

		kind, ok := approved.LeaveType.BenefitKind()
		if !ok || approved.WorkingDays == 0 {
			return nil
		}
		return s.benefitsRepo.AddUsage(txCtx, approved.EmployeeID, approved.StartDate.Year(), kind, approved.WorkingDays)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.notifyDecision(approved, notification.TypeLeaveApproved, "Leave approved",
		fmt.Sprintf("Your %s leave %s to %s was approved.", approved.LeaveType,
			approved.StartDate.Format("2006-01-02"), approved.EndDate.Format("2006-01-02")))

	return leave.ToResponse(approved), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(true); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	rejected, err := s.leaveRepo.Decide(ctx, req.ID, leave.StatusRejected, req.ReviewerID, req.Reason)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.notifyDecision(rejected, notification.TypeLeaveRejected, "Leave rejected",
		fmt.Sprintf("Your %s leave %s to %s was rejected. Reason: %s", rejected.LeaveType,
			rejected.StartDate.Format("2006-01-02"), rejected.EndDate.Format("2006-01-02"), *req.Reason))

	return leave.ToResponse(rejected), nil
}

func (s *LeaveServiceImpl) notifyDecision(lr leave.LeaveRequest, t notification.NotificationType, title, text string) {
	msg := notification.Message{
		Type:       t,
		EmployeeID: lr.EmployeeID,
		Title:      title,
		Text:       text,
		Data:       map[string]interface{}{"leave_request_id": lr.ID},
	}
	if lr.LineUserID != nil {
		msg.LineUserID = *lr.LineUserID
	}
	s.notify(msg)
}

func (s *LeaveServiceImpl) notify(msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Enqueue(msg); err != nil {
		slog.Warn("Failed to enqueue leave notification", "error", err, "type", msg.Type, "employee_id", msg.EmployeeID)
	}
}
