package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/validator"
)

// CalculateRequest runs the calculation for one employee and month. The
// result stays an unsaved draft unless Save is set.
type CalculateRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"` // "YYYY-MM"
	Save       bool   `json:"save"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RunPayrollRequest runs the calculation for every active employee with a
// salary config and saves the resulting drafts.
type RunPayrollRequest struct {
	Month string `json:"month"`
}

func (r *RunPayrollRequest) Validate() error {
	if _, ok := validator.IsValidMonth(r.Month); !ok {
		return validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}
	return nil
}

// RunError reports one employee whose calculation failed during a batch run.
// The batch itself continues.
type RunError struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// RunPayrollResponse carries the saved drafts plus per-employee failures.
type RunPayrollResponse struct {
	Month    string            `json:"month"`
	Payslips []PayslipResponse `json:"payslips"`
	Errors   []RunError        `json:"errors"`
}

// FinalizeRequest locks payslips against recalculation.
type FinalizeRequest struct {
	PayslipIDs []string `json:"payslip_ids"`
}

func (r *FinalizeRequest) Validate() error {
	if len(r.PayslipIDs) == 0 {
		return validator.ValidationErrors{{
			Field:   "payslip_ids",
			Message: "at least one payslip id is required",
		}}
	}
	return nil
}

// PayslipFilter narrows payslip listings.
type PayslipFilter struct {
	Month      string
	EmployeeID string
	Finalized  *bool
	Page       int
	Limit      int
}

// PayslipResponse is the API shape of a computed payslip.
type PayslipResponse struct {
	ID                 string          `json:"id,omitempty"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name,omitempty"`
	EmployeeCode       string          `json:"employee_code,omitempty"`
	Month              string          `json:"month"`
	StandardWorkDays   int             `json:"standard_work_days"`
	ActualWorkDays     int             `json:"actual_work_days"`
	PaidLeaveDays      int             `json:"paid_leave_days"`
	TotalWorkDays      int             `json:"total_work_days"`
	OvertimeHours      float64         `json:"overtime_hours"`
	BaseSalary         decimal.Decimal `json:"base_salary"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	AllowanceTotal     decimal.Decimal `json:"allowance_total"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`
	InsuranceDeduction decimal.Decimal `json:"insurance_deduction"`
	PITDeduction       decimal.Decimal `json:"pit_deduction"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	IsFinalized        bool            `json:"is_finalized"`
	FinalizedAt        *string         `json:"finalized_at,omitempty"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// ListPayslipResponse is a paginated payslip listing.
type ListPayslipResponse struct {
	Data       []PayslipResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// UpdateSettingsRequest upserts company payroll knobs by key.
type UpdateSettingsRequest struct {
	Settings map[string]decimal.Decimal `json:"settings"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if len(r.Settings) == 0 {
		return validator.ValidationErrors{{
			Field:   "settings",
			Message: "at least one setting is required",
		}}
	}
	var errs validator.ValidationErrors
	for key := range r.Settings {
		if validator.IsEmpty(key) {
			errs = append(errs, validator.ValidationError{
				Field:   "settings",
				Message: "setting keys must not be empty",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SettingsResponse returns the raw knobs.
type SettingsResponse struct {
	Settings map[string]decimal.Decimal `json:"settings"`
}

// UpsertSalaryConfigRequest creates or replaces an employee's pay parameters.
type UpsertSalaryConfigRequest struct {
	EmployeeID          string          `json:"employee_id"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	StandardWorkDays    int             `json:"standard_work_days"`
	StandardHoursPerDay int             `json:"standard_hours_per_day"`
	OTMultiplierWeekday decimal.Decimal `json:"ot_multiplier_weekday"`
	OTMultiplierWeekend decimal.Decimal `json:"ot_multiplier_weekend"`
	OTMultiplierHoliday decimal.Decimal `json:"ot_multiplier_holiday"`
	InsuranceRate       decimal.Decimal `json:"insurance_rate"`
	Allowances          []Allowance     `json:"allowances"`
}

func (r *UpsertSalaryConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must not be negative",
		})
	}
	if r.StandardWorkDays <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "standard_work_days",
			Message: "standard_work_days must be greater than zero",
		})
	}
	if r.StandardHoursPerDay <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "standard_hours_per_day",
			Message: "standard_hours_per_day must be greater than zero",
		})
	}
	if r.InsuranceRate.IsNegative() || r.InsuranceRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{
			Field:   "insurance_rate",
			Message: "insurance_rate must be between 0 and 1",
		})
	}
	for _, a := range r.Allowances {
		if a.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "allowances",
				Message: "allowance amounts must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SalaryConfigResponse is the API shape of an employee's pay parameters.
type SalaryConfigResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	StandardWorkDays    int             `json:"standard_work_days"`
	StandardHoursPerDay int             `json:"standard_hours_per_day"`
	OTMultiplierWeekday decimal.Decimal `json:"ot_multiplier_weekday"`
	OTMultiplierWeekend decimal.Decimal `json:"ot_multiplier_weekend"`
	OTMultiplierHoliday decimal.Decimal `json:"ot_multiplier_holiday"`
	InsuranceRate       decimal.Decimal `json:"insurance_rate"`
	Allowances          []Allowance     `json:"allowances"`
}
