package attendance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string, now time.Time) (attendance.TodayResponse, error) {
	snap, err := a.settings.Get(ctx)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	policy := snap.Policy
	loc := locationOf(policy)

	date := attendance.DateOnly(now, loc)
	record, err := a.DayRecordRepository.GetDayRecord(ctx, employeeID, date)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's record: %w", err)
	}

	if record.State() == attendance.StateNoRecord {
		// an overnight shift still open from yesterday is what the employee sees
		previous, err := a.DayRecordRepository.GetDayRecord(ctx, employeeID, date.AddDate(0, 0, -1))
		if err != nil {
			return attendance.TodayResponse{}, fmt.Errorf("failed to get previous record: %w", err)
		}
		if previous.State() == attendance.StateCheckedIn {
			record, date = previous, previous.Date
		}
	}

	resp := attendance.TodayResponse{
		Date:  date.Format("2006-01-02"),
		State: record.State(),
	}
	if record == nil {
		return resp, nil
	}

	resp.HasData = true
	resp.Status = &record.Status
	resp.CheckInTime = timePtrToString(record.CheckInTime, loc)
	resp.CheckOutTime = timePtrToString(record.CheckOutTime, loc)
	resp.WorkHours = record.WorkHours
	resp.OvertimeHours = record.OvertimeHours
	resp.Notes = record.Notes

	switch resp.State {
	case attendance.StateCheckedIn:
		resp.IsWorkingNow = true
		resp.CurrentWorkHours = ComputeWorkHours(*record.CheckInTime, &now, policy).WorkHours
	case attendance.StateCheckedOut:
		resp.IsComplete = true
		resp.CurrentWorkHours = record.WorkHours
	}

	return resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	snap, err := a.settings.Get(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	records, total, err := a.DayRecordRepository.ListHistory(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	attendances := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		attendances = append(attendances, toResponse(r, snap.Policy))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := "0 results"
	if len(attendances) > 0 {
		from := (filter.Page-1)*filter.Limit + 1
		showing = fmt.Sprintf("%d-%d of %d results", from, from+len(attendances)-1, total)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: attendances,
	}, nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (attendance.MonthlySummaryResponse, error) {
	var errs validator.ValidationErrors
	if year < 2000 || year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if month < time.January || month > time.December {
		errs.Add("month", "month must be between 1 and 12")
	}
	if err := errs.Err(); err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	snap, err := a.settings.Get(ctx)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	period := attendance.MonthPeriod(year, month)
	records, err := a.DayRecordRepository.ListByPeriod(ctx, period, &employeeID)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to list monthly records: %w", err)
	}

	return attendance.MonthlySummaryResponse{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       int(month),
		StartDate:   period.Start.Format("2006-01-02"),
		EndDate:     period.End.Format("2006-01-02"),
		WorkingDays: WorkingDays(period),
		Summary:     Summarize(records, period, snap.Policy),
	}, nil
}

// GetPeriodReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetPeriodReport(ctx context.Context, filter attendance.ReportFilter) (attendance.PeriodReportResponse, error) {
	period, err := filter.Validate()
	if err != nil {
		return attendance.PeriodReportResponse{}, err
	}

	snap, err := a.settings.Get(ctx)
	if err != nil {
		return attendance.PeriodReportResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	policy := snap.Policy

	records, err := a.DayRecordRepository.ListByPeriod(ctx, period, filter.EmployeeID)
	if err != nil {
		return attendance.PeriodReportResponse{}, fmt.Errorf("failed to list period records: %w", err)
	}

	grouped, order := groupByEmployee(records)
	employees, err := a.EmployeeRepository.ListByIDs(ctx, order)
	if err != nil {
		return attendance.PeriodReportResponse{}, fmt.Errorf("failed to list report employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	reports := make([]attendance.EmployeeReport, 0, len(order))
	for _, id := range order {
		recs := grouped[id]
		report := attendance.EmployeeReport{
			EmployeeID: id,
			Summary:    Summarize(recs, period, policy),
		}
		if e, ok := byID[id]; ok {
			report.EmployeeCode = e.EmployeeCode
			report.EmployeeName = e.Name
			report.Position = e.Position
			if e.Salary != nil {
				pay := OvertimePay(report.Summary.TotalOvertimeHours, *e.Salary, policy)
				report.OvertimePay = &pay
			}
		}
		if filter.Format == attendance.ReportFormatDetailed {
			report.Records = make([]attendance.AttendanceResponse, 0, len(recs))
			for _, r := range recs {
				report.Records = append(report.Records, toResponse(r, policy))
			}
		}
		reports = append(reports, report)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].EmployeeCode < reports[j].EmployeeCode
	})

	return attendance.PeriodReportResponse{
		StartDate:   period.Start.Format("2006-01-02"),
		EndDate:     period.End.Format("2006-01-02"),
		Format:      filter.Format,
		GeneratedAt: a.now(),
		Totals:      Summarize(records, period, policy),
		Employees:   reports,
	}, nil
}
