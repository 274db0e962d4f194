package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
)

// Summarize reduces the records that fall inside period. Late minutes are
// recomputed from the check-in time rather than read from storage.
func Summarize(records []attendance.DayRecord, period attendance.Period, policy settings.WorkPolicy) attendance.Summary {
	var s attendance.Summary

	for _, r := range records {
		if !period.Contains(r.Date) {
			continue
		}
		s.TotalDays++

		switch r.Status {
		case attendance.StatusPresent:
			s.PresentDays++
		case attendance.StatusLate:
			s.PresentDays++
			s.LateDays++
			if r.CheckInTime != nil {
				s.TotalLateMinutes += IsLate(*r.CheckInTime, policy).LateMinutes
			}
		case attendance.StatusAbsent:
			s.AbsentDays++
		}

		s.TotalWorkHours += r.WorkHours
		s.TotalOvertimeHours += r.OvertimeHours
	}

	s.TotalWorkHours = round2(s.TotalWorkHours)
	s.TotalOvertimeHours = round2(s.TotalOvertimeHours)

	if s.TotalDays > 0 {
		s.AverageWorkHours = round2(s.TotalWorkHours / float64(s.TotalDays))
		s.AttendanceRate = round1(float64(s.PresentDays) / float64(s.TotalDays) * 100)
	}

	return s
}

// groupByEmployee keeps each employee's records in date order.
func groupByEmployee(records []attendance.DayRecord) (map[string][]attendance.DayRecord, []string) {
	grouped := make(map[string][]attendance.DayRecord)
	var order []string
	for _, r := range records {
		if _, ok := grouped[r.EmployeeID]; !ok {
			order = append(order, r.EmployeeID)
		}
		grouped[r.EmployeeID] = append(grouped[r.EmployeeID], r)
	}
	for _, id := range order {
		recs := grouped[id]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	}
	return grouped, order
}

// WorkingDays counts Monday to Friday inside period.
func WorkingDays(period attendance.Period) int {
	n := 0
	for d := period.Start; !d.After(period.End); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
