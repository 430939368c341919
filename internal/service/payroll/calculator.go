package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
)

// DayClass buckets a calendar date for overtime multiplier selection.
// Holiday wins over weekend.
type DayClass int

const (
	DayClassWeekday DayClass = iota
	DayClassWeekend
	DayClassHoliday
)

// CalculationInput carries everything the calculator needs. It is read-only;
// the calculator holds no state and performs no I/O.
type CalculationInput struct {
	Salary         payroll.SalaryConfig
	System         payroll.SystemConfig
	Summary        attendance.MonthlySummary
	OvertimeByDate map[string]float64 // "YYYY-MM-DD" -> hours
	Holidays       map[string]bool    // "YYYY-MM-DD"
	Dependents     int
}

// ClassifyDay returns the overtime bucket for a date string.
func ClassifyDay(date string, holidays map[string]bool) DayClass {
	if holidays[date] {
		return DayClassHoliday
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return DayClassWeekday
	}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return DayClassWeekend
	}
	return DayClassWeekday
}

// Calculate computes one payslip from aggregated attendance and config.
// Intermediates keep full decimal precision; whole-VND rounding happens only
// on the output fields. Quantities that would go negative are clamped to zero
// and reported as warnings rather than failing the run.
func Calculate(in CalculationInput) (payroll.MonthlyPayslip, []string, error) {
	cfg := in.Salary
	if cfg.StandardWorkDays <= 0 || cfg.StandardHoursPerDay <= 0 {
		return payroll.MonthlyPayslip{}, nil, payroll.ErrInvalidSalaryConfig
	}

	var warnings []string

	// Prorated base. Days beyond the standard are not extra base pay; that
	// time is compensated through overtime.
	totalWorkDays := in.Summary.TotalWorkDays
	if totalWorkDays < 0 {
		warnings = append(warnings, "negative total work days clamped to zero")
		totalWorkDays = 0
	}
	effectiveDays := totalWorkDays
	if effectiveDays > cfg.StandardWorkDays {
		effectiveDays = cfg.StandardWorkDays
	}
	proratedBase := cfg.BaseSalary.
		Mul(decimal.NewFromInt(int64(effectiveDays))).
		Div(decimal.NewFromInt(int64(cfg.StandardWorkDays)))

	// Overtime, bucketed by the day class of the date it was earned on.
	hourlyRate := cfg.BaseSalary.Div(decimal.NewFromInt(int64(cfg.StandardWorkDays * cfg.StandardHoursPerDay)))
	overtimePay := decimal.Zero
	var overtimeHours float64
	for date, hours := range in.OvertimeByDate {
		if hours <= 0 {
			continue
		}
		multiplier := cfg.OTMultiplierWeekday
		switch ClassifyDay(date, in.Holidays) {
		case DayClassHoliday:
			multiplier = cfg.OTMultiplierHoliday
		case DayClassWeekend:
			multiplier = cfg.OTMultiplierWeekend
		}
		overtimeHours += hours
		overtimePay = overtimePay.Add(decimal.NewFromFloat(hours).Mul(hourlyRate).Mul(multiplier))
	}

	allowanceTotal := decimal.Zero
	for _, a := range cfg.Allowances {
		if a.Amount.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("negative allowance %q clamped to zero", a.Name))
			continue
		}
		allowanceTotal = allowanceTotal.Add(a.Amount)
	}

	gross := proratedBase.Add(overtimePay).Add(allowanceTotal)

	// Insurance applies to a statutorily capped base. A zero cap means uncapped.
	insuranceBase := gross
	if in.System.InsuranceCapBase.IsPositive() && gross.GreaterThan(in.System.InsuranceCapBase) {
		insuranceBase = in.System.InsuranceCapBase
	}
	insurance := insuranceBase.Mul(cfg.InsuranceRate)
	if insurance.IsNegative() {
		warnings = append(warnings, "negative insurance deduction clamped to zero")
		insurance = decimal.Zero
	}

	taxable := gross.
		Sub(insurance).
		Sub(in.System.PersonalDeduction).
		Sub(in.System.DependentDeduction.Mul(decimal.NewFromInt(int64(in.Dependents))))
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	pit := progressiveTax(taxable, in.System.TaxBrackets)

	net := gross.Sub(insurance).Sub(pit)
	if net.IsNegative() {
		warnings = append(warnings, "negative net salary clamped to zero")
		net = decimal.Zero
	}

	return payroll.MonthlyPayslip{
		EmployeeID:         in.Summary.EmployeeID,
		Month:              in.Summary.Month,
		StandardWorkDays:   cfg.StandardWorkDays,
		ActualWorkDays:     in.Summary.ActualWorkDays,
		PaidLeaveDays:      in.Summary.PaidLeaveDays,
		TotalWorkDays:      in.Summary.TotalWorkDays,
		OvertimeHours:      overtimeHours,
		BaseSalary:         cfg.BaseSalary,
		OvertimePay:        overtimePay.Round(0),
		AllowanceTotal:     allowanceTotal.Round(0),
		GrossSalary:        gross.Round(0),
		InsuranceDeduction: insurance.Round(0),
		PITDeduction:       pit.Round(0),
		NetSalary:          net.Round(0),
	}, warnings, nil
}

// progressiveTax accumulates bracket contributions over taxable income.
// Brackets are ordered lowest first; a zero UpTo marks the unbounded tail.
func progressiveTax(taxable decimal.Decimal, brackets []payroll.TaxBracket) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	remaining := taxable
	prev := decimal.Zero
	for _, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		slice := remaining
		if !b.UpTo.IsZero() {
			width := b.UpTo.Sub(prev)
			if slice.GreaterThan(width) {
				slice = width
			}
			prev = b.UpTo
		}
		tax = tax.Add(slice.Mul(b.Rate))
		remaining = remaining.Sub(slice)
	}
	return tax
}
