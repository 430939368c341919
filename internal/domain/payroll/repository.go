package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for payroll. All methods take
// companyID to prevent cross-company data access.
type PayrollRepository interface {
	// Salary configs
	GetSalaryConfig(ctx context.Context, employeeID, companyID string) (SalaryConfig, error)
	UpsertSalaryConfig(ctx context.Context, cfg SalaryConfig) (SalaryConfig, error)

	// System settings (key-value knobs)
	GetSettings(ctx context.Context, companyID string) (Settings, error)
	UpsertSettings(ctx context.Context, companyID string, settings Settings) error

	// Holiday calendar, used to bucket overtime by day class
	GetHolidayDates(ctx context.Context, companyID string, from, to time.Time) ([]time.Time, error)

	// Payslips. UpsertDraftPayslip must refuse to touch a finalized row
	// (conditional write); FinalizePayslips flips is_finalized only where it
	// is still false and returns the number of rows it locked.
	UpsertDraftPayslip(ctx context.Context, p MonthlyPayslip) (MonthlyPayslip, error)
	GetPayslipByID(ctx context.Context, id, companyID string) (MonthlyPayslip, error)
	GetPayslipByEmployeeMonth(ctx context.Context, employeeID, month, companyID string) (MonthlyPayslip, error)
	ListPayslips(ctx context.Context, companyID string, filter PayslipFilter) ([]MonthlyPayslip, int64, error)
	FinalizePayslips(ctx context.Context, ids []string, finalizedBy, companyID string) (int64, error)
}
