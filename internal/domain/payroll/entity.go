package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Allowance is a fixed monthly salary component added to gross pay.
type Allowance struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SalaryConfig holds one employee's pay parameters. Amounts are whole VND.
type SalaryConfig struct {
	ID                   string
	EmployeeID           string
	CompanyID            string
	BaseSalary           decimal.Decimal
	StandardWorkDays     int
	StandardHoursPerDay  int
	OTMultiplierWeekday  decimal.Decimal
	OTMultiplierWeekend  decimal.Decimal
	OTMultiplierHoliday  decimal.Decimal
	InsuranceRate        decimal.Decimal
	Allowances           []Allowance
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Settings is the raw company-wide payroll configuration: keyed numeric knobs
// owned by administration, read-only to the calculator.
type Settings map[string]decimal.Decimal

// Well-known settings keys.
const (
	KeyPersonalDeduction  = "tax.personal_deduction"
	KeyDependentDeduction = "tax.dependent_deduction"
	KeyInsuranceCapBase   = "insurance.cap_base"

	keyBracketUpTo = "tax.bracket.%d.up_to"
	keyBracketRate = "tax.bracket.%d.rate"
)

// TaxBracket is one progressive PIT slice. A zero UpTo marks the final,
// unbounded bracket.
type TaxBracket struct {
	UpTo decimal.Decimal `json:"up_to"`
	Rate decimal.Decimal `json:"rate"`
}

// SystemConfig is the parsed, validated view of Settings that the calculator
// consumes. Brackets are ordered lowest first.
type SystemConfig struct {
	PersonalDeduction  decimal.Decimal
	DependentDeduction decimal.Decimal
	InsuranceCapBase   decimal.Decimal
	TaxBrackets        []TaxBracket
}

// SystemConfigFromSettings parses the keyed knobs into a SystemConfig.
// Brackets are read from tax.bracket.N.rate / tax.bracket.N.up_to starting at
// N=1 until the first missing rate; the last bracket may omit up_to to mark
// it unbounded. Bracket changes are a configuration edit, never a code change.
func SystemConfigFromSettings(s Settings) (SystemConfig, error) {
	cfg := SystemConfig{
		PersonalDeduction:  s[KeyPersonalDeduction],
		DependentDeduction: s[KeyDependentDeduction],
		InsuranceCapBase:   s[KeyInsuranceCapBase],
	}

	for n := 1; ; n++ {
		rate, ok := s[fmt.Sprintf(keyBracketRate, n)]
		if !ok {
			break
		}
		bracket := TaxBracket{Rate: rate}
		if upTo, ok := s[fmt.Sprintf(keyBracketUpTo, n)]; ok {
			bracket.UpTo = upTo
		}
		cfg.TaxBrackets = append(cfg.TaxBrackets, bracket)
	}

	if len(cfg.TaxBrackets) == 0 {
		return SystemConfig{}, ErrSystemConfigMissing
	}

	for i, b := range cfg.TaxBrackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return SystemConfig{}, fmt.Errorf("tax bracket %d rate out of range: %w", i+1, ErrInvalidSystemConfig)
		}
		if i > 0 && !b.UpTo.IsZero() && b.UpTo.LessThanOrEqual(cfg.TaxBrackets[i-1].UpTo) {
			return SystemConfig{}, fmt.Errorf("tax bracket %d threshold not increasing: %w", i+1, ErrInvalidSystemConfig)
		}
		if b.UpTo.IsZero() && i != len(cfg.TaxBrackets)-1 {
			return SystemConfig{}, fmt.Errorf("only the last tax bracket may be unbounded: %w", ErrInvalidSystemConfig)
		}
	}

	return cfg, nil
}

// MonthlyPayslip is the computed pay result for one (employee, month). Once
// finalized it is immutable; later runs must be refused, never overwritten.
type MonthlyPayslip struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Month              string // "YYYY-MM"
	StandardWorkDays   int
	ActualWorkDays     int
	PaidLeaveDays      int
	TotalWorkDays      int
	OvertimeHours      float64
	BaseSalary         decimal.Decimal
	OvertimePay        decimal.Decimal
	AllowanceTotal     decimal.Decimal
	GrossSalary        decimal.Decimal
	InsuranceDeduction decimal.Decimal
	PITDeduction       decimal.Decimal
	NetSalary          decimal.Decimal
	IsFinalized        bool
	FinalizedAt        *time.Time
	FinalizedBy        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
