package attendance

import (
	"time"

	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/shift"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/timeutil"
)

const dateLayout = "2006-01-02"

// CountWorkDays counts distinct dates with at least one record. Duplicate or
// double-scanned rows for the same date count once.
func CountWorkDays(records []attendance.Record) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Date.Format(dateLayout)] = struct{}{}
	}
	return len(seen)
}

// SumWorkedHours totals hours_worked across records; nil fields contribute zero.
func SumWorkedHours(records []attendance.Record) float64 {
	var total float64
	for _, r := range records {
		if r.HoursWorked != nil {
			total += *r.HoursWorked
		}
	}
	return total
}

// SumOvertimeHours totals overtime_hours across records; nil fields contribute zero.
func SumOvertimeHours(records []attendance.Record) float64 {
	var total float64
	for _, r := range records {
		if r.OvertimeHours != nil {
			total += *r.OvertimeHours
		}
	}
	return total
}

// OvertimeByDate buckets overtime hours by the date they were earned on, keyed
// "YYYY-MM-DD". Payroll uses the buckets to pick weekday/weekend/holiday
// multipliers.
func OvertimeByDate(records []attendance.Record) map[string]float64 {
	buckets := make(map[string]float64)
	for _, r := range records {
		if r.OvertimeHours == nil || *r.OvertimeHours <= 0 {
			continue
		}
		buckets[r.Date.Format(dateLayout)] += *r.OvertimeHours
	}
	return buckets
}

// CountPaidLeaveDays counts the calendar days of approved, paid leave requests
// that fall inside the given month. Ranges are inclusive; a request spanning a
// month boundary only credits the days inside the month.
func CountPaidLeaveDays(requests []leave.Request, month time.Time) int {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var days int
	for _, req := range requests {
		if req.Status != leave.RequestStatusApproved || !req.IsPaid() {
			continue
		}

		start := truncateToDay(req.StartDate)
		end := truncateToDay(req.EndDate)
		if start.After(monthEnd) || end.Before(monthStart) {
			continue
		}
		if start.Before(monthStart) {
			start = monthStart
		}
		if end.After(monthEnd) {
			end = monthEnd
		}
		days += int(end.Sub(start).Hours()/24) + 1
	}
	return days
}

// ClassifyStatus derives a record's status from its timestamps against the
// scheduled shift. Pending while check-out is absent; checking in exactly at
// shift start is ontime, not late.
func ClassifyStatus(record attendance.Record, scheduled shift.ShiftTime) attendance.Status {
	if record.CheckOut == nil {
		return attendance.StatusPending
	}

	shiftStart, err := timeutil.ParseTimeToMinutes(scheduled.StartTime)
	if err != nil {
		return attendance.StatusOntime
	}
	shiftEnd, err := timeutil.ParseTimeToMinutes(scheduled.EndTime)
	if err != nil {
		return attendance.StatusOntime
	}

	if record.CheckIn != nil && clockMinutes(*record.CheckIn) > shiftStart {
		return attendance.StatusLate
	}
	if clockMinutes(*record.CheckOut) < shiftEnd {
		return attendance.StatusEarlyLeave
	}
	return attendance.StatusOntime
}

// Aggregate folds one employee's month of records and leave into the summary
// payroll consumes. A corrupt record degrades to a zero contribution; it never
// aborts the aggregation.
func Aggregate(employeeID, month string, monthStart time.Time, standardWorkDays int, records []attendance.Record, leaves []leave.Request) attendance.MonthlySummary {
	actual := CountWorkDays(records)
	paidLeave := CountPaidLeaveDays(leaves, monthStart)

	return attendance.MonthlySummary{
		EmployeeID:         employeeID,
		Month:              month,
		StandardWorkDays:   standardWorkDays,
		ActualWorkDays:     actual,
		PaidLeaveDays:      paidLeave,
		TotalWorkDays:      actual + paidLeave,
		TotalHours:         SumWorkedHours(records),
		TotalOvertimeHours: SumOvertimeHours(records),
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
