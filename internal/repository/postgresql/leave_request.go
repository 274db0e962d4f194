package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.total_days, lr.working_days,
	lr.reason, lr.status, lr.reviewed_by, lr.reviewed_at, lr.rejection_reason, lr.created_at, lr.updated_at,
	e.name, e.employee_code, e.line_user_id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.TotalDays,
		&lr.WorkingDays,
		&lr.Reason,
		&lr.Status,
		&lr.ReviewedBy,
		&lr.ReviewedAt,
		&lr.RejectionReason,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.EmployeeName,
		&lr.EmployeeCode,
		&lr.LineUserID,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate id: %w", err)
	}
	req.ID = id.String()
	if req.Status == "" {
		req.Status = leave.StatusPending
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, total_days, working_days, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.LeaveType,
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"),
		req.TotalDays,
		req.WorkingDays,
		req.Reason,
		req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests lr "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveRequestColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, total, nil
}

// HasOverlap implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
				AND status IN ('pending', 'approved')
				AND start_date <= $3 AND end_date >= $2
		)
	`, employeeID, start.Format("2006-01-02"), end.Format("2006-01-02")).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, id string, status leave.LeaveRequestStatus, reviewerID string, reason *string) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_requests SET
			status = $2,
			reviewed_by = $3,
			reviewed_at = NOW(),
			rejection_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id, status, reviewerID, reason)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	return r.GetByID(ctx, id)
}

// EmployeesOnLeave implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) EmployeesOnLeave(ctx context.Context, date time.Time) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT employee_id FROM leave_requests
		WHERE status = 'approved' AND start_date <= $1 AND end_date >= $1
	`, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query employees on leave: %w", err)
	}
	defer rows.Close()

	onLeave := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		onLeave[id] = true
	}
	return onLeave, rows.Err()
}
