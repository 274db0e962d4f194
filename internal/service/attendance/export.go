package attendance

import (
	"context"
	"fmt"
	"io"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	recordsSheet = "Records"
)

var summaryHeaders = []interface{}{
	"Employee Code", "Employee Name", "Position", "Total Days", "Present Days", "Late Days",
	"Absent Days", "Late Minutes", "Work Hours", "Overtime Hours", "Average Hours",
	"Attendance Rate (%)", "Overtime Pay",
}

var recordHeaders = []interface{}{
	"Employee Code", "Employee Name", "Date", "Status", "Check In", "Check Out",
	"Work Hours", "Overtime Hours", "Late Minutes", "Notes",
}

// ExportPeriodReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportPeriodReport(ctx context.Context, filter attendance.ReportFilter, w io.Writer) error {
	report, err := a.GetPeriodReport(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, report); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if report.Format == attendance.ReportFormatDetailed {
		if err := writeRecordsSheet(f, report); err != nil {
			return fmt.Errorf("failed to write records sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeSummarySheet(f *excelize.File, report attendance.PeriodReportResponse) error {
	// the default sheet of a new workbook is renamed rather than left empty
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	if err := f.SetCellValue(summarySheet, "A1", "ATTENDANCE REPORT"); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Period: %s to %s", report.StartDate, report.EndDate)); err != nil {
		return err
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, "A4", &summaryHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A4", "M4", style); err != nil {
		return err
	}

	row := 5
	for _, e := range report.Employees {
		var position interface{}
		if e.Position != nil {
			position = *e.Position
		}
		var pay interface{}
		if e.OvertimePay != nil {
			pay = *e.OvertimePay
		}
		values := []interface{}{
			e.EmployeeCode, e.EmployeeName, position,
			e.Summary.TotalDays, e.Summary.PresentDays, e.Summary.LateDays, e.Summary.AbsentDays,
			e.Summary.TotalLateMinutes, e.Summary.TotalWorkHours, e.Summary.TotalOvertimeHours,
			e.Summary.AverageWorkHours, e.Summary.AttendanceRate, pay,
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}

	totals := []interface{}{
		"TOTAL", "", "",
		report.Totals.TotalDays, report.Totals.PresentDays, report.Totals.LateDays, report.Totals.AbsentDays,
		report.Totals.TotalLateMinutes, report.Totals.TotalWorkHours, report.Totals.TotalOvertimeHours,
		report.Totals.AverageWorkHours, report.Totals.AttendanceRate,
	}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}

	if err := f.SetColWidth(summarySheet, "A", "C", 20); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "D", "M", 14)
}

func writeRecordsSheet(f *excelize.File, report attendance.PeriodReportResponse) error {
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return err
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &recordHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(recordsSheet, "A1", "J1", style); err != nil {
		return err
	}

	row := 2
	for _, e := range report.Employees {
		for _, r := range e.Records {
			values := []interface{}{
				e.EmployeeCode, e.EmployeeName, r.Date, string(r.Status),
				deref(r.CheckInTime), deref(r.CheckOutTime),
				r.WorkHours, r.OvertimeHours, r.LateMinutes, deref(r.Notes),
			}
			if err := f.SetSheetRow(recordsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(recordsSheet, "A", "J", 18)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
