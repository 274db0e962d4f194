package cron

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
)

const absentNote = "Marked absent automatically: no check-in recorded"

type AttendanceJobs struct {
	attendanceRepo  attendance.DayRecordRepository
	employeeRepo    employee.EmployeeRepository
	leaveRepo       leave.LeaveRequestRepository
	settings        settings.Provider
	notificationSvc notification.Service
	now             func() time.Time

	mu      sync.Mutex
	lastDay time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.DayRecordRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	settingsProvider settings.Provider,
	notificationSvc notification.Service,
	clock func() time.Time,
) *AttendanceJobs {
	if clock == nil {
		clock = time.Now
	}
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		leaveRepo:       leaveRepo,
		settings:        settingsProvider,
		notificationSvc: notificationSvc,
		now:             clock,
	}
}

// RegisterJobs runs the absence sweep at start as well, so a restart after
// midnight does not skip a day.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "mark_absent_employees",
		Interval: time.Hour,
		Timeout:  5 * time.Minute,
		Fn:       j.MarkAbsentEmployees,
	})
}

// MarkAbsentEmployees runs hourly but acts once per local day: the first run
// after midnight closes out yesterday.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	snap, err := j.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	today := attendance.DateOnly(j.now(), snap.Policy.Location)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastDay.Equal(today) {
		return nil
	}

	yesterday := today.AddDate(0, 0, -1)
	if wd := yesterday.Weekday(); wd == time.Saturday || wd == time.Sunday {
		j.lastDay = today
		return nil
	}

	marked, err := j.markAbsent(ctx, yesterday)
	if err != nil {
		return err
	}
	j.lastDay = today

	slog.Info("Cron: absent employees marked", "date", yesterday.Format("2006-01-02"), "count", marked)
	return nil
}

func (j *AttendanceJobs) markAbsent(ctx context.Context, date time.Time) (int64, error) {
	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(employees) == 0 {
		return 0, nil
	}

	onLeave, err := j.leaveRepo.EmployeesOnLeave(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees on leave: %w", err)
	}

	records, err := j.attendanceRepo.ListByPeriod(ctx, attendance.Period{Start: date, End: date}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list day records: %w", err)
	}
	recorded := make(map[string]bool, len(records))
	for _, r := range records {
		recorded[r.EmployeeID] = true
	}

	note := absentNote
	var absences []attendance.DayRecord
	var names []string
	for _, e := range employees {
		if recorded[e.ID] || onLeave[e.ID] {
			continue
		}
		absences = append(absences, attendance.DayRecord{
			EmployeeID: e.ID,
			Date:       date,
			Status:     attendance.StatusAbsent,
			Notes:      &note,
		})
		names = append(names, fmt.Sprintf("%s (%s)", e.Name, e.EmployeeCode))
	}
	if len(absences) == 0 {
		return 0, nil
	}

	marked, err := j.attendanceRepo.CreateAbsences(ctx, absences)
	if err != nil {
		return 0, fmt.Errorf("failed to create absences: %w", err)
	}

	if j.notificationSvc != nil && marked > 0 {
		err := j.notificationSvc.Enqueue(notification.Message{
			Type:  notification.TypeAttendanceMarkedAbsent,
			Title: "Employees marked absent",
			Text:  fmt.Sprintf("%d employee(s) absent on %s: %s", marked, date.Format("2006-01-02"), strings.Join(names, ", ")),
			Data: map[string]interface{}{
				"date":  date.Format("2006-01-02"),
				"count": marked,
			},
		})
		if err != nil {
			slog.Warn("Failed to enqueue absence notification", "error", err)
		}
	}

	return marked, nil
}
