package attendance

import (
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/geo"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (l *LocationInput) Point() geo.Point {
	var p geo.Point
	if l.Latitude != nil {
		p.Latitude = *l.Latitude
	}
	if l.Longitude != nil {
		p.Longitude = *l.Longitude
	}
	return p
}

// RecordAttendanceRequest is the single entry point for check-in and check-out.
type RecordAttendanceRequest struct {
	EmployeeID string         `json:"-"`
	Action     string         `json:"action"`
	Date       *string        `json:"date,omitempty"` // YYYY-MM-DD, defaults to the timestamp's local date
	Timestamp  time.Time      `json:"-"`
	Location   *LocationInput `json:"location"`
	Notes      *string        `json:"notes,omitempty"`
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.Action) {
		errs.Add("action", "action is required")
	} else if !validator.IsInSlice(r.Action, []string{string(ActionCheckIn), string(ActionCheckOut)}) {
		errs.Add("action", "action must be one of: checkin, checkout")
	}

	if r.Timestamp.IsZero() {
		errs.Add("timestamp", "timestamp is required")
	}

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	if r.Location == nil || r.Location.Latitude == nil || r.Location.Longitude == nil {
		errs.Add("location", "location with latitude and longitude is required")
	} else {
		errs = append(errs, geo.ValidateCoordinates(r.Location.Point())...)
		if r.Location.Accuracy != nil && *r.Location.Accuracy < 0 {
			errs.Add("accuracy", "accuracy must not be negative")
		}
	}

	if r.Notes != nil && !validator.LengthBetween(*r.Notes, 0, 500) {
		errs.Add("notes", "notes must be at most 500 characters")
	}

	return errs.Err()
}

// RecordDate resolves the calendar date the action belongs to.
func (r *RecordAttendanceRequest) RecordDate(loc *time.Location) time.Time {
	if r.Date != nil && *r.Date != "" {
		if d, ok := validator.IsValidDate(*r.Date); ok {
			return d
		}
	}
	return DateOnly(r.Timestamp, loc)
}

type GeofenceResult struct {
	OfficeID      string  `json:"office_id"`
	OfficeName    string  `json:"office_name"`
	Distance      float64 `json:"distance_meters"`
	DistanceText  string  `json:"distance_text"`
	IsWithinRange bool    `json:"is_within_range"`
	Accuracy      *string `json:"accuracy_level,omitempty"`
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	EmployeeCode  *string         `json:"employee_code,omitempty"`
	Date          string          `json:"date"`
	State         State           `json:"state"`
	Status        Status          `json:"status"`
	CheckInTime   *string         `json:"check_in_time"`
	CheckOutTime  *string         `json:"check_out_time"`
	WorkHours     float64         `json:"work_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	BreakHours    *float64        `json:"break_hours,omitempty"`
	LateMinutes   int             `json:"late_minutes"`
	EarlyMinutes  *int            `json:"early_minutes,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Geofence      *GeofenceResult `json:"geofence,omitempty"`
}

// TodayResponse mirrors what the LIFF home screen renders.
type TodayResponse struct {
	Date             string  `json:"date"`
	HasData          bool    `json:"has_data"`
	State            State   `json:"state"`
	Status           *Status `json:"status,omitempty"`
	CheckInTime      *string `json:"check_in_time"`
	CheckOutTime     *string `json:"check_out_time"`
	WorkHours        float64 `json:"work_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	CurrentWorkHours float64 `json:"current_work_hours"`
	IsWorkingNow     bool    `json:"is_working_now"`
	IsComplete       bool    `json:"is_complete"`
	Notes            *string `json:"notes,omitempty"`
}

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

var validStatuses = []string{
	string(StatusPresent), string(StatusLate), string(StatusAbsent), string(StatusHalfDay), string(StatusHoliday),
}

func (f *HistoryFilter) Validate() error {
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

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs.Add("status", "status must be one of: present, late, absent, half_day, holiday")
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		d, valid := validator.IsValidDate(*f.StartDate)
		if !valid {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
		start = d
	}
	if f.EndDate != nil && *f.EndDate != "" {
		d, valid := validator.IsValidDate(*f.EndDate)
		if !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
		end = d
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// AGGREGATION DTOs
// ========================================

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(date time.Time) bool {
	d := DateOnly(date, time.UTC)
	return !d.Before(DateOnly(p.Start, time.UTC)) && !d.After(DateOnly(p.End, time.UTC))
}

// MonthPeriod returns the first and last day of the month.
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

type Summary struct {
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	LateDays           int     `json:"late_days"`
	AbsentDays         int     `json:"absent_days"`
	TotalLateMinutes   int     `json:"total_late_minutes"`
	TotalWorkHours     float64 `json:"total_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AverageWorkHours   float64 `json:"average_work_hours"`
	AttendanceRate     float64 `json:"attendance_rate"`
}

type MonthlySummaryResponse struct {
	EmployeeID  string  `json:"employee_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	WorkingDays int     `json:"working_days"`
	Summary     Summary `json:"summary"`
}

const (
	ReportFormatSummary  = "summary"
	ReportFormatDetailed = "detailed"
)

type ReportFilter struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Format     string  `json:"format"`
}

// Validate also resolves the period, returned for convenience.
func (f *ReportFilter) Validate() (Period, error) {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(f.StartDate)
	if !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(f.EndDate)
	if !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if end.Sub(start) > 366*24*time.Hour {
			errs.Add("end_date", "report period must not exceed one year")
		}
	}

	if f.Format == "" {
		f.Format = ReportFormatSummary
	}
	if !validator.IsInSlice(f.Format, []string{ReportFormatSummary, ReportFormatDetailed}) {
		errs.Add("format", "format must be one of: summary, detailed")
	}

	if err := errs.Err(); err != nil {
		return Period{}, err
	}
	return Period{Start: start, End: end}, nil
}

type EmployeeReport struct {
	EmployeeID   string               `json:"employee_id"`
	EmployeeCode string               `json:"employee_code"`
	EmployeeName string               `json:"employee_name"`
	Position     *string              `json:"position,omitempty"`
	Summary      Summary              `json:"summary"`
	OvertimePay  *float64             `json:"overtime_pay,omitempty"`
	Records      []AttendanceResponse `json:"records,omitempty"`
}

type PeriodReportResponse struct {
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Format      string           `json:"format"`
	GeneratedAt time.Time        `json:"generated_at"`
	Totals      Summary          `json:"totals"`
	Employees   []EmployeeReport `json:"employees"`
}
