package attendance

import (
	"context"
	"io"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Record dispatches a check-in or check-out for one employee and day
	Record(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)

	// CheckIn is legal only when the day has no record
	CheckIn(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)

	// CheckOut is legal only after a check-in and computes the day's hours
	CheckOut(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)

	GetToday(ctx context.Context, employeeID string, now time.Time) (TodayResponse, error)

	GetHistory(ctx context.Context, employeeID string, filter HistoryFilter) (ListAttendanceResponse, error)

	GetMonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (MonthlySummaryResponse, error)

	// GetPeriodReport aggregates per employee for HR
	GetPeriodReport(ctx context.Context, filter ReportFilter) (PeriodReportResponse, error)

	// ExportPeriodReport writes the period report as an XLSX workbook
	ExportPeriodReport(ctx context.Context, filter ReportFilter, w io.Writer) error
}
