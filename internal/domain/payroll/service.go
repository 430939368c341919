package payroll

import "context"

// PayrollService runs salary calculations and manages payslip lifecycle.
type PayrollService interface {
	// Calculate computes one employee's payslip for a month. With Save set the
	// draft is persisted; otherwise the result is returned without touching
	// storage. Recalculating a finalized payslip fails with ErrPayslipFinalized.
	Calculate(ctx context.Context, req *CalculateRequest) (PayslipResponse, error)

	// RunMonthly calculates and saves drafts for every active employee that
	// has a salary config. Individual failures are collected, not fatal.
	RunMonthly(ctx context.Context, req *RunPayrollRequest) (RunPayrollResponse, error)

	// Finalize locks the given payslips against recalculation.
	Finalize(ctx context.Context, req *FinalizeRequest) error

	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)

	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) error

	GetSalaryConfig(ctx context.Context, employeeID string) (SalaryConfigResponse, error)
	UpsertSalaryConfig(ctx context.Context, req *UpsertSalaryConfigRequest) (SalaryConfigResponse, error)
}
