package attendance

import (
	"bytes"
	"context"
	"testing"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReportService(t *testing.T) *AttendanceServiceImpl {
	t.Helper()

	salary := 17600.0
	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "e1", EmployeeCode: "EMP00002", Name: "Malee", Status: employee.StatusActive, Salary: &salary},
		employee.Employee{ID: "e2", EmployeeCode: "EMP00001", Name: "Somchai", Status: employee.StatusActive},
	)
	records := newFakeDayRecordRepo()
	in1, out1 := at(2, 9, 0), at(2, 20, 0)
	records.put(attendance.DayRecord{EmployeeID: "e1", Date: day(2), CheckInTime: &in1, CheckOutTime: &out1, Status: attendance.StatusPresent, WorkHours: 10, OvertimeHours: 2})
	records.put(attendance.DayRecord{EmployeeID: "e1", Date: day(3), Status: attendance.StatusAbsent})
	in2 := at(2, 9, 30)
	records.put(attendance.DayRecord{EmployeeID: "e2", Date: day(2), CheckInTime: &in2, Status: attendance.StatusLate})
	// outside the period
	records.put(attendance.DayRecord{EmployeeID: "e2", Date: day(20), Status: attendance.StatusPresent})

	provider := &staticProvider{snap: settings.DefaultSnapshot("Test Co", bangkok, false)}
	return NewAttendanceService(records, employees, provider, nil, nil)
}

func TestGetPeriodReport(t *testing.T) {
	svc := newReportService(t)

	report, err := svc.GetPeriodReport(context.Background(), attendance.ReportFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-10",
		Format:    attendance.ReportFormatDetailed,
	})
	require.NoError(t, err)

	require.Len(t, report.Employees, 2)
	assert.Equal(t, "EMP00001", report.Employees[0].EmployeeCode)
	assert.Equal(t, "EMP00002", report.Employees[1].EmployeeCode)

	malee := report.Employees[1]
	assert.Equal(t, 2, malee.Summary.TotalDays)
	assert.Equal(t, 1, malee.Summary.AbsentDays)
	assert.Equal(t, 50.0, malee.Summary.AttendanceRate)
	require.NotNil(t, malee.OvertimePay)
	assert.Equal(t, 300.0, *malee.OvertimePay)
	assert.Len(t, malee.Records, 2)

	assert.Nil(t, report.Employees[0].OvertimePay)
	assert.Equal(t, 30, report.Employees[0].Summary.TotalLateMinutes)

	assert.Equal(t, 3, report.Totals.TotalDays)
	assert.Equal(t, 2, report.Totals.PresentDays)
}

func TestGetPeriodReport_InvalidPeriod(t *testing.T) {
	svc := newReportService(t)

	_, err := svc.GetPeriodReport(context.Background(), attendance.ReportFilter{StartDate: "2026-03-10", EndDate: "2026-03-01"})
	assert.Error(t, err)
}

func TestExportPeriodReport(t *testing.T) {
	svc := newReportService(t)

	var buf bytes.Buffer
	err := svc.ExportPeriodReport(context.Background(), attendance.ReportFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-10",
		Format:    attendance.ReportFormatDetailed,
	}, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, recordsSheet}, f.GetSheetList())

	code, err := f.GetCellValue(summarySheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "EMP00001", code)

	total, err := f.GetCellValue(summarySheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", total)

	rows, err := f.GetRows(recordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
