package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/geo"
)

type AttendanceServiceImpl struct {
	attendance.DayRecordRepository
	employee.EmployeeRepository
	settings settings.Provider
	notifier notification.Service
	now      func() time.Time
	locks    *dayLocker
}

// NewAttendanceService wires the state machine to its collaborators. notifier
// may be nil, clock defaults to time.Now.
func NewAttendanceService(
	dayRecordRepository attendance.DayRecordRepository,
	employeeRepository employee.EmployeeRepository,
	settingsProvider settings.Provider,
	notifier notification.Service,
	clock func() time.Time,
) *AttendanceServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	return &AttendanceServiceImpl{
		DayRecordRepository: dayRecordRepository,
		EmployeeRepository:  employeeRepository,
		settings:            settingsProvider,
		notifier:            notifier,
		now:                 clock,
		locks:               newDayLocker(),
	}
}

// Record implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	switch attendance.Action(req.Action) {
	case attendance.ActionCheckIn:
		return a.CheckIn(ctx, req)
	default:
		return a.CheckOut(ctx, req)
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	req.Action = string(attendance.ActionCheckIn)
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	snap, err := a.settings.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	policy := snap.Policy

	fence, err := evaluateGeofence(snap, req.Location)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date := req.RecordDate(policy.Location)
	checkIn := req.Timestamp

	var saved attendance.DayRecord
	err = a.withDayLock(ctx, req.EmployeeID, date, func(txCtx context.Context) error {
		existing, err := a.DayRecordRepository.GetDayRecord(txCtx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get day record: %w", err)
		}
		if existing.State() != attendance.StateNoRecord {
			return attendance.ErrAlreadyCheckedIn
		}

		record := attendance.DayRecord{
			EmployeeID:  req.EmployeeID,
			Date:        date,
			CheckInTime: &checkIn,
			Status:      attendance.StatusPresent,
			Notes:       req.Notes,
		}
		if existing != nil {
			// an absence marked by the nightly job is replaced by the real check-in
			record.ID = existing.ID
		}
		if IsLate(checkIn, policy).IsLate {
			record.Status = attendance.StatusLate
		}
		fence.applyCheckIn(&record, req.Location)

		saved, err = a.DayRecordRepository.UpsertDayRecord(txCtx, record)
		if err != nil {
			return fmt.Errorf("failed to save check-in: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := toResponse(saved, policy)
	resp.Geofence = fence.result(saved.CheckInAccuracy)

	a.notify(notification.Message{
		Type:       notification.TypeAttendanceCheckIn,
		EmployeeID: emp.ID,
		LineUserID: emp.LineUserID,
		Title:      "Checked in",
		Text: fmt.Sprintf("Checked in at %s (%s).",
			checkIn.In(locationOf(policy)).Format("15:04"), saved.Status),
		Data: map[string]interface{}{
			"date":   resp.Date,
			"status": saved.Status,
		},
	})

	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	req.Action = string(attendance.ActionCheckOut)
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	snap, err := a.settings.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	policy := snap.Policy

	fence, err := evaluateGeofence(snap, req.Location)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := a.checkOutDate(ctx, req, policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var saved attendance.DayRecord
	var hours WorkHours
	err = a.withDayLock(ctx, req.EmployeeID, date, func(txCtx context.Context) error {
		record, err := a.DayRecordRepository.GetDayRecord(txCtx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get day record: %w", err)
		}

		switch record.State() {
		case attendance.StateNoRecord:
			return attendance.ErrNotCheckedIn
		case attendance.StateCheckedOut:
			return attendance.ErrAlreadyCheckedOut
		}

		checkOut := NormalizeCheckOut(*record.CheckInTime, req.Timestamp)
		hours = ComputeWorkHours(*record.CheckInTime, &checkOut, policy)

		record.CheckOutTime = &checkOut
		record.WorkHours = hours.WorkHours
		record.OvertimeHours = hours.OvertimeHours
		if req.Notes != nil {
			record.Notes = req.Notes
		}
		fence.applyCheckOut(record, req.Location)

		saved, err = a.DayRecordRepository.UpsertDayRecord(txCtx, *record)
		if err != nil {
			return fmt.Errorf("failed to save check-out: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := toResponse(saved, policy)
	resp.BreakHours = &hours.BreakHours
	resp.Geofence = fence.result(saved.CheckOutAccuracy)

	a.notify(notification.Message{
		Type:       notification.TypeAttendanceCheckOut,
		EmployeeID: emp.ID,
		LineUserID: emp.LineUserID,
		Title:      "Checked out",
		Text: fmt.Sprintf("Checked out at %s. Worked %.2fh, overtime %.2fh.",
			saved.CheckOutTime.In(locationOf(policy)).Format("15:04"), saved.WorkHours, saved.OvertimeHours),
		Data: map[string]interface{}{
			"date":           resp.Date,
			"work_hours":     saved.WorkHours,
			"overtime_hours": saved.OvertimeHours,
		},
	})

	return resp, nil
}

// checkOutDate picks the day a check-out closes. Without an explicit date an
// open shift from yesterday is closed when today has no check-in, so night
// shifts end on the day they started.
func (a *AttendanceServiceImpl) checkOutDate(ctx context.Context, req attendance.RecordAttendanceRequest, policy settings.WorkPolicy) (time.Time, error) {
	today := req.RecordDate(policy.Location)
	if req.Date != nil && *req.Date != "" {
		return today, nil
	}

	record, err := a.DayRecordRepository.GetDayRecord(ctx, req.EmployeeID, today)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get day record: %w", err)
	}
	if record.State() != attendance.StateNoRecord {
		return today, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	previous, err := a.DayRecordRepository.GetDayRecord(ctx, req.EmployeeID, yesterday)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get previous day record: %w", err)
	}
	if previous.State() == attendance.StateCheckedIn {
		return yesterday, nil
	}
	return today, nil
}

// withDayLock serializes in process first so concurrent requests of one
// employee do not all queue on a database connection.
func (a *AttendanceServiceImpl) withDayLock(ctx context.Context, employeeID string, date time.Time, fn func(ctx context.Context) error) error {
	unlock := a.locks.Lock(employeeID, date)
	defer unlock()
	return a.DayRecordRepository.WithDayLock(ctx, employeeID, date, fn)
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	switch emp.Status {
	case employee.StatusActive:
		return emp, nil
	case employee.StatusPending:
		return employee.Employee{}, employee.ErrEmployeePending
	default:
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
}

func (a *AttendanceServiceImpl) notify(msg notification.Message) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Enqueue(msg); err != nil {
		slog.Warn("Failed to enqueue attendance notification",
			"error", err,
			"type", msg.Type,
			"employee_id", msg.EmployeeID,
		)
	}
}

// geofence is the evaluation of one request location against the configured offices.
type geofence struct {
	eval  geo.Evaluation
	found bool
}

func evaluateGeofence(snap settings.Snapshot, loc *attendance.LocationInput) (geofence, error) {
	eval, found := geo.FindNearestOffice(loc.Point(), snap.ActiveOffices())
	if snap.GeofenceEnforced {
		if !found {
			return geofence{}, attendance.ErrNoOfficeConfigured
		}
		if !eval.IsWithinRange {
			return geofence{}, fmt.Errorf("%w: %s from %s (allowed %s)", attendance.ErrOutOfRangeLocation,
				geo.FormatDistance(eval.Distance), eval.Office.Name, geo.FormatDistance(eval.Office.RadiusMeters))
		}
	}
	return geofence{eval: eval, found: found}, nil
}

func (g geofence) result(accuracy *string) *attendance.GeofenceResult {
	if !g.found {
		return nil
	}
	return &attendance.GeofenceResult{
		OfficeID:      g.eval.Office.ID,
		OfficeName:    g.eval.Office.Name,
		Distance:      g.eval.Distance,
		DistanceText:  geo.FormatDistance(g.eval.Distance),
		IsWithinRange: g.eval.IsWithinRange,
		Accuracy:      accuracy,
	}
}

func (g geofence) applyCheckIn(r *attendance.DayRecord, loc *attendance.LocationInput) {
	r.CheckInLatitude = loc.Latitude
	r.CheckInLongitude = loc.Longitude
	r.CheckInAccuracy = accuracyLevel(loc)
	if g.found {
		distance := g.eval.Distance
		officeID := g.eval.Office.ID
		r.CheckInDistanceMeters = &distance
		r.OfficeID = &officeID
	}
}

func (g geofence) applyCheckOut(r *attendance.DayRecord, loc *attendance.LocationInput) {
	r.CheckOutLatitude = loc.Latitude
	r.CheckOutLongitude = loc.Longitude
	r.CheckOutAccuracy = accuracyLevel(loc)
	if g.found {
		distance := g.eval.Distance
		r.CheckOutDistanceMeters = &distance
		if r.OfficeID == nil {
			officeID := g.eval.Office.ID
			r.OfficeID = &officeID
		}
	}
}

func accuracyLevel(loc *attendance.LocationInput) *string {
	if loc.Accuracy == nil {
		return nil
	}
	level := geo.AccuracyLevel(*loc.Accuracy)
	return &level
}

func locationOf(policy settings.WorkPolicy) *time.Location {
	if policy.Location == nil {
		return time.UTC
	}
	return policy.Location
}

// timePtrToString formats t in the policy timezone.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format(time.RFC3339)
	return &format
}

func toResponse(r attendance.DayRecord, policy settings.WorkPolicy) attendance.AttendanceResponse {
	loc := locationOf(policy)
	resp := attendance.AttendanceResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		EmployeeCode:  r.EmployeeCode,
		Date:          r.Date.Format("2006-01-02"),
		State:         r.State(),
		Status:        r.Status,
		CheckInTime:   timePtrToString(r.CheckInTime, loc),
		CheckOutTime:  timePtrToString(r.CheckOutTime, loc),
		WorkHours:     r.WorkHours,
		OvertimeHours: r.OvertimeHours,
		Notes:         r.Notes,
	}
	if r.CheckInTime != nil {
		resp.LateMinutes = IsLate(*r.CheckInTime, policy).LateMinutes
	}
	if r.CheckOutTime != nil {
		if early := IsEarlyCheckout(*r.CheckOutTime, policy); early.IsEarly {
			resp.EarlyMinutes = &early.EarlyMinutes
		}
	}
	return resp
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
