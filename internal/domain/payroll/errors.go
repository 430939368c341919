package payroll

import "errors"

var (
	ErrSalaryConfigMissing = errors.New("salary config not found for employee")
	ErrInvalidSalaryConfig = errors.New("salary config has no standard work days")
	ErrSystemConfigMissing = errors.New("payroll system config not found")
	ErrInvalidSystemConfig = errors.New("payroll system config is invalid")
	ErrPayslipNotFound     = errors.New("payslip not found")
	ErrPayslipFinalized    = errors.New("payslip already finalized, cannot recalculate or modify")
	ErrInvalidMonth        = errors.New("invalid payroll month, use YYYY-MM")
)
