package attendance

import (
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
)

// breakDeductionMinHours is the shift length from which lunch is deducted.
const breakDeductionMinHours = 6.0

// WorkHours is the result of one day's time accounting. Every value is
// rounded to two decimals.
type WorkHours struct {
	TotalHours    float64 `json:"total_hours"`
	BreakHours    float64 `json:"break_hours"`
	WorkHours     float64 `json:"work_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type LateResult struct {
	IsLate      bool `json:"is_late"`
	LateMinutes int  `json:"late_minutes"`
}

type EarlyResult struct {
	IsEarly      bool `json:"is_early"`
	EarlyMinutes int  `json:"early_minutes"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeCheckOut moves a check-out that lies before the check-in one day
// forward, so an overnight shift ends after it starts.
func NormalizeCheckOut(checkIn, checkOut time.Time) time.Time {
	if checkOut.Before(checkIn) {
		return checkOut.Add(24 * time.Hour)
	}
	return checkOut
}

// ComputeWorkHours accounts one shift against the policy's lunch window and
// standard day. A nil checkOut yields zeros.
func ComputeWorkHours(checkIn time.Time, checkOut *time.Time, policy settings.WorkPolicy) WorkHours {
	if checkOut == nil || checkIn.IsZero() || checkOut.IsZero() {
		return WorkHours{}
	}

	loc := policy.Location
	if loc == nil {
		loc = time.UTC
	}
	in := checkIn.In(loc)
	out := NormalizeCheckOut(in, checkOut.In(loc))

	total := out.Sub(in).Hours()

	var breakHours float64
	if total >= breakDeductionMinHours {
		// Capping the deduction at the part of the shift above the threshold
		// keeps work hours non-decreasing as check-out moves later.
		breakHours = math.Min(lunchOverlap(in, out, policy), total-breakDeductionMinHours)
	}

	work := math.Max(0, total-breakHours)
	overtime := math.Max(0, work-policy.StandardWorkHoursPerDay)

	result := WorkHours{
		TotalHours:    round2(math.Max(0, total)),
		BreakHours:    round2(breakHours),
		WorkHours:     round2(work),
		OvertimeHours: round2(overtime),
	}

	for _, v := range []float64{result.TotalHours, result.BreakHours, result.WorkHours, result.OvertimeHours} {
		if !isFinite(v) {
			slog.Warn("time accounting produced a non-finite value, zeroing",
				"error", attendance.ErrComputation,
				"check_in", checkIn,
				"check_out", *checkOut,
				"standard_hours", policy.StandardWorkHoursPerDay,
			)
			return WorkHours{}
		}
	}

	return result
}

// lunchOverlap sums the overlap of [in, out] with the lunch window of every
// calendar day the shift touches.
func lunchOverlap(in, out time.Time, policy settings.WorkPolicy) float64 {
	var overlap time.Duration
	for day := attendanceDay(in); !day.After(out); day = day.AddDate(0, 0, 1) {
		lunchStart := policy.LunchStart.On(day)
		lunchEnd := policy.LunchEnd.On(day)

		start := in
		if lunchStart.After(start) {
			start = lunchStart
		}
		end := out
		if lunchEnd.Before(end) {
			end = lunchEnd
		}
		if end.After(start) {
			overlap += end.Sub(start)
		}
	}
	return overlap.Hours()
}

func attendanceDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsLate compares a check-in with the standard start plus the late threshold.
// Late minutes count from the standard start, not from the threshold.
func IsLate(checkIn time.Time, policy settings.WorkPolicy) LateResult {
	local := inPolicyZone(checkIn, policy)
	start := policy.StandardStartTime.On(local)
	limit := start.Add(time.Duration(policy.LateThresholdMinutes) * time.Minute)

	if !local.After(limit) {
		return LateResult{}
	}
	return LateResult{
		IsLate:      true,
		LateMinutes: int(math.Floor(local.Sub(start).Minutes())),
	}
}

// IsEarlyCheckout reports a check-out before the standard end of its day.
func IsEarlyCheckout(checkOut time.Time, policy settings.WorkPolicy) EarlyResult {
	local := inPolicyZone(checkOut, policy)
	end := policy.StandardEndTime.On(local)

	if !local.Before(end) {
		return EarlyResult{}
	}
	return EarlyResult{
		IsEarly:      true,
		EarlyMinutes: int(math.Floor(end.Sub(local).Minutes())),
	}
}

// OvertimePay prices overtime at the policy multiplier over an hourly rate
// derived from an 8 hour day.
func OvertimePay(overtimeHours, monthlySalary float64, policy settings.WorkPolicy) float64 {
	days := policy.WorkingDaysPerMonth
	if days <= 0 {
		days = 22
	}
	hourlyRate := monthlySalary / float64(days*8)
	pay := round2(overtimeHours * hourlyRate * policy.OvertimeMultiplier)
	if !isFinite(pay) || pay < 0 {
		slog.Warn("overtime pay is not a valid amount, zeroing",
			"error", attendance.ErrComputation,
			"overtime_hours", overtimeHours,
			"salary", monthlySalary,
		)
		return 0
	}
	return pay
}

func inPolicyZone(t time.Time, policy settings.WorkPolicy) time.Time {
	if policy.Location == nil {
		return t
	}
	return t.In(policy.Location)
}
