package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/employee"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/validator"
	attendancesvc "github.com/workpay-hq/payroll-engine-go/internal/service/attendance"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.Repository
	leaveRepo      leave.Repository
	logger         *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		logger:         logger,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func userIDFromContext(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req *payroll.CalculateRequest) (payroll.PayslipResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, warnings, err := s.calculateOne(ctx, req.EmployeeID, req.Month, companyID, req.Save)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapToPayslipResponse(slip, warnings), nil
}

// calculateOne runs the full pipeline for one employee and month. With save
// set, the draft is upserted; a finalized payslip for the month refuses the
// run either way.
func (s *PayrollServiceImpl) calculateOne(ctx context.Context, employeeID, month, companyID string, save bool) (payroll.MonthlyPayslip, []string, error) {
	monthStart, ok := validator.IsValidMonth(month)
	if !ok {
		return payroll.MonthlyPayslip{}, nil, payroll.ErrInvalidMonth
	}
	monthEnd := monthStart.AddDate(0, 1, -1)

	existing, err := s.payrollRepo.GetPayslipByEmployeeMonth(ctx, employeeID, month, companyID)
	switch {
	case err == nil:
		if existing.IsFinalized {
			return payroll.MonthlyPayslip{}, nil, payroll.ErrPayslipFinalized
		}
	case errors.Is(err, payroll.ErrPayslipNotFound):
	default:
		return payroll.MonthlyPayslip{}, nil, fmt.Errorf("failed to check existing payslip: %w", err)
	}

	salaryCfg, err := s.payrollRepo.GetSalaryConfig(ctx, employeeID, companyID)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, err
	}

	settings, err := s.payrollRepo.GetSettings(ctx, companyID)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	systemCfg, err := payroll.SystemConfigFromSettings(settings)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, err
	}

	records, err := s.attendanceRepo.GetByEmployeeAndRange(ctx, employeeID, monthStart, monthEnd, companyID)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	leaves, err := s.leaveRepo.GetByEmployeeAndRange(ctx, employeeID, monthStart, monthEnd, leave.RequestStatusApproved, companyID)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, fmt.Errorf("failed to get leave requests: %w", err)
	}

	holidayDates, err := s.payrollRepo.GetHolidayDates(ctx, companyID, monthStart, monthEnd)
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	holidays := make(map[string]bool, len(holidayDates))
	for _, h := range holidayDates {
		holidays[h.Format("2006-01-02")] = true
	}

	summary := attendancesvc.Aggregate(employeeID, month, monthStart, salaryCfg.StandardWorkDays, records, leaves)

	slip, warnings, err := Calculate(CalculationInput{
		Salary:         salaryCfg,
		System:         systemCfg,
		Summary:        summary,
		OvertimeByDate: attendancesvc.OvertimeByDate(records),
		Holidays:       holidays,
		Dependents:     emp.Dependents,
	})
	if err != nil {
		return payroll.MonthlyPayslip{}, nil, err
	}

	for _, w := range warnings {
		s.logger.Warn("payroll calculation warning",
			"employee_id", employeeID,
			"month", month,
			"warning", w,
		)
	}

	slip.CompanyID = companyID
	slip.EmployeeName = &emp.Name
	slip.EmployeeCode = &emp.Code
	if existing.ID != "" {
		slip.ID = existing.ID
	} else {
		slip.ID = uuid.NewString()
	}

	if save {
		saved, err := s.payrollRepo.UpsertDraftPayslip(ctx, slip)
		if err != nil {
			return payroll.MonthlyPayslip{}, nil, fmt.Errorf("failed to save payslip draft: %w", err)
		}
		saved.EmployeeName = slip.EmployeeName
		saved.EmployeeCode = slip.EmployeeCode
		return saved, warnings, nil
	}
	return slip, warnings, nil
}

// RunMonthly implements payroll.PayrollService. One employee's failure is
// collected, never fatal to the batch.
func (s *PayrollServiceImpl) RunMonthly(ctx context.Context, req *payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.RunPayrollResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.RunPayrollResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.RunPayrollResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := payroll.RunPayrollResponse{
		Month:    req.Month,
		Payslips: make([]payroll.PayslipResponse, 0, len(employees)),
		Errors:   []payroll.RunError{},
	}
	for _, emp := range employees {
		slip, warnings, err := s.calculateOne(ctx, emp.ID, req.Month, companyID, true)
		if err != nil {
			s.logger.Warn("payroll run skipped employee",
				"employee_id", emp.ID,
				"month", req.Month,
				"error", err,
			)
			resp.Errors = append(resp.Errors, payroll.RunError{
				EmployeeID: emp.ID,
				Error:      err.Error(),
			})
			continue
		}
		resp.Payslips = append(resp.Payslips, mapToPayslipResponse(slip, warnings))
	}
	return resp, nil
}

// Finalize implements payroll.PayrollService. The store only flips payslips
// that are still drafts; anything already finalized makes the whole request
// fail without partial effect being reported as success.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, req *payroll.FinalizeRequest) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	affected, err := s.payrollRepo.FinalizePayslips(ctx, req.PayslipIDs, userIDFromContext(ctx), companyID)
	if err != nil {
		return fmt.Errorf("failed to finalize payslips: %w", err)
	}
	if affected == 0 {
		return payroll.ErrPayslipNotFound
	}
	if affected != int64(len(req.PayslipIDs)) {
		return payroll.ErrPayslipFinalized
	}
	return nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, err := s.payrollRepo.GetPayslipByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapToPayslipResponse(slip, nil), nil
}

// ListPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) (payroll.ListPayslipResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Month != "" {
		if _, ok := validator.IsValidMonth(filter.Month); !ok {
			return payroll.ListPayslipResponse{}, payroll.ErrInvalidMonth
		}
	}

	slips, total, err := s.payrollRepo.ListPayslips(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayslipResponse{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	data := make([]payroll.PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		data = append(data, mapToPayslipResponse(slip, nil))
	}
	return payroll.ListPayslipResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.SettingsResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.payrollRepo.GetSettings(ctx, companyID)
	if err != nil {
		return payroll.SettingsResponse{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return payroll.SettingsResponse{Settings: settings}, nil
}

// UpdateSettings implements payroll.PayrollService. The merged result must
// still parse into a valid system config before anything is written.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req *payroll.UpdateSettingsRequest) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	current, err := s.payrollRepo.GetSettings(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to get payroll settings: %w", err)
	}
	merged := make(payroll.Settings, len(current)+len(req.Settings))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range req.Settings {
		merged[k] = v
	}
	if _, err := payroll.SystemConfigFromSettings(merged); err != nil {
		return err
	}

	if err := s.payrollRepo.UpsertSettings(ctx, companyID, req.Settings); err != nil {
		return fmt.Errorf("failed to update payroll settings: %w", err)
	}
	return nil
}

// GetSalaryConfig implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSalaryConfig(ctx context.Context, employeeID string) (payroll.SalaryConfigResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.SalaryConfigResponse{}, err
	}

	cfg, err := s.payrollRepo.GetSalaryConfig(ctx, employeeID, companyID)
	if err != nil {
		return payroll.SalaryConfigResponse{}, err
	}
	return mapToSalaryConfigResponse(cfg), nil
}

// UpsertSalaryConfig implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpsertSalaryConfig(ctx context.Context, req *payroll.UpsertSalaryConfigRequest) (payroll.SalaryConfigResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.SalaryConfigResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.SalaryConfigResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return payroll.SalaryConfigResponse{}, err
	}

	saved, err := s.payrollRepo.UpsertSalaryConfig(ctx, payroll.SalaryConfig{
		EmployeeID:          req.EmployeeID,
		CompanyID:           companyID,
		BaseSalary:          req.BaseSalary,
		StandardWorkDays:    req.StandardWorkDays,
		StandardHoursPerDay: req.StandardHoursPerDay,
		OTMultiplierWeekday: req.OTMultiplierWeekday,
		OTMultiplierWeekend: req.OTMultiplierWeekend,
		OTMultiplierHoliday: req.OTMultiplierHoliday,
		InsuranceRate:       req.InsuranceRate,
		Allowances:          req.Allowances,
	})
	if err != nil {
		return payroll.SalaryConfigResponse{}, fmt.Errorf("failed to save salary config: %w", err)
	}
	return mapToSalaryConfigResponse(saved), nil
}

func mapToPayslipResponse(slip payroll.MonthlyPayslip, warnings []string) payroll.PayslipResponse {
	resp := payroll.PayslipResponse{
		ID:                 slip.ID,
		EmployeeID:         slip.EmployeeID,
		Month:              slip.Month,
		StandardWorkDays:   slip.StandardWorkDays,
		ActualWorkDays:     slip.ActualWorkDays,
		PaidLeaveDays:      slip.PaidLeaveDays,
		TotalWorkDays:      slip.TotalWorkDays,
		OvertimeHours:      slip.OvertimeHours,
		BaseSalary:         slip.BaseSalary,
		OvertimePay:        slip.OvertimePay,
		AllowanceTotal:     slip.AllowanceTotal,
		GrossSalary:        slip.GrossSalary,
		InsuranceDeduction: slip.InsuranceDeduction,
		PITDeduction:       slip.PITDeduction,
		NetSalary:          slip.NetSalary,
		IsFinalized:        slip.IsFinalized,
		Warnings:           warnings,
	}
	if slip.EmployeeName != nil {
		resp.EmployeeName = *slip.EmployeeName
	}
	if slip.EmployeeCode != nil {
		resp.EmployeeCode = *slip.EmployeeCode
	}
	if slip.FinalizedAt != nil {
		v := slip.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &v
	}
	return resp
}

func mapToSalaryConfigResponse(cfg payroll.SalaryConfig) payroll.SalaryConfigResponse {
	return payroll.SalaryConfigResponse{
		ID:                  cfg.ID,
		EmployeeID:          cfg.EmployeeID,
		BaseSalary:          cfg.BaseSalary,
		StandardWorkDays:    cfg.StandardWorkDays,
		StandardHoursPerDay: cfg.StandardHoursPerDay,
		OTMultiplierWeekday: cfg.OTMultiplierWeekday,
		OTMultiplierWeekend: cfg.OTMultiplierWeekend,
		OTMultiplierHoliday: cfg.OTMultiplierHoliday,
		InsuranceRate:       cfg.InsuranceRate,
		Allowances:          cfg.Allowances,
	}
}
