package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.DayRecordRepository {
	return &attendanceRepository{db: db}
}

const dayRecordColumns = `
	a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
	a.work_hours, a.overtime_hours, a.status, a.notes,
	a.check_in_latitude, a.check_in_longitude, a.check_in_accuracy, a.check_in_distance_meters,
	a.check_out_latitude, a.check_out_longitude, a.check_out_accuracy, a.check_out_distance_meters,
	a.office_id, a.created_at, a.updated_at,
	e.name, e.employee_code`

func scanDayRecord(row pgx.Row) (attendance.DayRecord, error) {
	var r attendance.DayRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.CheckInTime, &r.CheckOutTime,
		&r.WorkHours, &r.OvertimeHours, &r.Status, &r.Notes,
		&r.CheckInLatitude, &r.CheckInLongitude, &r.CheckInAccuracy, &r.CheckInDistanceMeters,
		&r.CheckOutLatitude, &r.CheckOutLongitude, &r.CheckOutAccuracy, &r.CheckOutDistanceMeters,
		&r.OfficeID, &r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName, &r.EmployeeCode,
	)
	return r, err
}

// GetDayRecord implements attendance.DayRecordRepository.
func (a *attendanceRepository) GetDayRecord(ctx context.Context, employeeID string, date time.Time) (*attendance.DayRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + dayRecordColumns + `
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2
	`

	r, err := scanDayRecord(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get day record: %w", err)
	}
	return &r, nil
}

// UpsertDayRecord implements attendance.DayRecordRepository.
func (a *attendanceRepository) UpsertDayRecord(ctx context.Context, record attendance.DayRecord) (attendance.DayRecord, error) {
	q := GetQuerier(ctx, a.db)

	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.DayRecord{}, fmt.Errorf("failed to generate id: %w", err)
		}
		record.ID = id.String()
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in_time, check_out_time,
			work_hours, overtime_hours, status, notes,
			check_in_latitude, check_in_longitude, check_in_accuracy, check_in_distance_meters,
			check_out_latitude, check_out_longitude, check_out_accuracy, check_out_distance_meters,
			office_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			work_hours = EXCLUDED.work_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			check_in_accuracy = EXCLUDED.check_in_accuracy,
			check_in_distance_meters = EXCLUDED.check_in_distance_meters,
			check_out_latitude = EXCLUDED.check_out_latitude,
			check_out_longitude = EXCLUDED.check_out_longitude,
			check_out_accuracy = EXCLUDED.check_out_accuracy,
			check_out_distance_meters = EXCLUDED.check_out_distance_meters,
			office_id = EXCLUDED.office_id,
			updated_at = NOW()
		RETURNING id, work_hours, overtime_hours, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date.Format("2006-01-02"),
		record.CheckInTime,
		record.CheckOutTime,
		record.WorkHours,
		record.OvertimeHours,
		record.Status,
		record.Notes,
		record.CheckInLatitude,
		record.CheckInLongitude,
		record.CheckInAccuracy,
		record.CheckInDistanceMeters,
		record.CheckOutLatitude,
		record.CheckOutLongitude,
		record.CheckOutAccuracy,
		record.CheckOutDistanceMeters,
		record.OfficeID,
	).Scan(&record.ID, &record.WorkHours, &record.OvertimeHours, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return attendance.DayRecord{}, fmt.Errorf("failed to upsert day record: %w", err)
	}

	return record, nil
}

// WithDayLock implements attendance.DayRecordRepository. The advisory lock is
// released when the transaction ends.
func (a *attendanceRepository) WithDayLock(ctx context.Context, employeeID string, date time.Time, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, a.db)
		key := "attendance:" + employeeID + ":" + date.Format("2006-01-02")
		if _, err := q.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("failed to lock day record: %w", err)
		}
		return fn(txCtx)
	})
}

// ListByPeriod implements attendance.DayRecordRepository.
func (a *attendanceRepository) ListByPeriod(ctx context.Context, period attendance.Period, employeeID *string) ([]attendance.DayRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + dayRecordColumns + `
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1 AND $2
	`
	args := []interface{}{period.Start.Format("2006-01-02"), period.End.Format("2006-01-02")}
	if employeeID != nil {
		query += " AND a.employee_id = $3"
		args = append(args, *employeeID)
	}
	query += " ORDER BY a.employee_id, a.date"

	return a.queryRecords(ctx, q, query, args...)
}

// ListHistory implements attendance.DayRecordRepository.
func (a *attendanceRepository) ListHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.DayRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	whereClauses := []string{"a.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records a " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance history: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		%s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, dayRecordColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	records, err := a.queryRecords(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CreateAbsences implements attendance.DayRecordRepository.
func (a *attendanceRepository) CreateAbsences(ctx context.Context, records []attendance.DayRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, a.db)

	ids := make([]string, len(records))
	employeeIDs := make([]string, len(records))
	dates := make([]string, len(records))
	notes := make([]*string, len(records))
	for i, r := range records {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("failed to generate id: %w", err)
		}
		ids[i] = id.String()
		employeeIDs[i] = r.EmployeeID
		dates[i] = r.Date.Format("2006-01-02")
		notes[i] = r.Notes
	}

	tag, err := q.Exec(ctx, `
		INSERT INTO attendance_records (id, employee_id, date, status, notes, work_hours, overtime_hours)
		SELECT id, employee_id, date, 'absent', note, 0, 0
		FROM unnest($1::uuid[], $2::uuid[], $3::date[], $4::text[]) AS t(id, employee_id, date, note)
		ON CONFLICT (employee_id, date) DO NOTHING
	`, ids, employeeIDs, dates, notes)
	if err != nil {
		return 0, fmt.Errorf("failed to create absences: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (a *attendanceRepository) queryRecords(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]attendance.DayRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query day records: %w", err)
	}
	defer rows.Close()

	var records []attendance.DayRecord
	for rows.Next() {
		r, err := scanDayRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan day record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day records: %w", err)
	}
	return records, nil
}
