package attendance

import (
	"context"
	"time"
)

// DayRecordRepository guarantees at most one record per (employeeID, date).
type DayRecordRepository interface {
	// GetDayRecord returns nil, nil when the employee has no record for date
	GetDayRecord(ctx context.Context, employeeID string, date time.Time) (*DayRecord, error)

	// UpsertDayRecord inserts or updates the record keyed by (employee_id, date)
	UpsertDayRecord(ctx context.Context, record DayRecord) (DayRecord, error)

	// WithDayLock runs fn while holding an exclusive lock on (employeeID, date).
	// Repository calls made with the ctx passed to fn join the same transaction.
	WithDayLock(ctx context.Context, employeeID string, date time.Time, fn func(ctx context.Context) error) error

	// ListByPeriod returns records in the inclusive period, optionally for one employee
	ListByPeriod(ctx context.Context, period Period, employeeID *string) ([]DayRecord, error)

	// ListHistory returns one employee's records newest first
	ListHistory(ctx context.Context, employeeID string, filter HistoryFilter) ([]DayRecord, int64, error)

	// CreateAbsences inserts absent records, skipping keys that already exist
	CreateAbsences(ctx context.Context, records []DayRecord) (int64, error)
}
