package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/employee"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
	attendancesvc "github.com/workpay-hq/payroll-engine-go/internal/service/attendance"
	payrollsvc "github.com/workpay-hq/payroll-engine-go/internal/service/payroll"
)

type PayrollJobs struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.Repository
	leaveRepo      leave.Repository
	db             *database.DB
}

func NewPayrollJobs(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	db *database.DB,
) *PayrollJobs {
	return &PayrollJobs{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		db:             db,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("payroll_monthly_draft", 1*time.Hour, j.GenerateMonthlyDrafts)
}

// GenerateMonthlyDrafts creates draft payslips for the previous month for
// every active employee with a salary config. Finalized payslips are left
// untouched; per-employee failures are logged and the job keeps going.
func (j *PayrollJobs) GenerateMonthlyDrafts(ctx context.Context) error {
	// Only run on the 1st of the month (01:00-01:59 UTC)
	now := time.Now().UTC()
	if now.Day() != 1 || now.Hour() != 1 {
		return nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	month := monthStart.Format("2006-01")
	monthEnd := monthStart.AddDate(0, 1, -1)

	slog.Info("Cron: Starting monthly payroll draft job", "month", month)

	rows, err := j.db.Pool.Query(ctx, `
		SELECT DISTINCT company_id FROM employees
		WHERE is_active = true
	`)
	if err != nil {
		return fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			continue
		}
		companyIDs = append(companyIDs, companyID)
	}

	totalDrafts := 0

	for _, companyID := range companyIDs {
		employees, err := j.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to get employees", "company_id", companyID, "error", err)
			continue
		}

		settings, err := j.payrollRepo.GetSettings(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to get payroll settings", "company_id", companyID, "error", err)
			continue
		}
		systemCfg, err := payroll.SystemConfigFromSettings(settings)
		if err != nil {
			slog.Error("Cron: Invalid payroll settings", "company_id", companyID, "error", err)
			continue
		}

		holidayDates, err := j.payrollRepo.GetHolidayDates(ctx, companyID, monthStart, monthEnd)
		if err != nil {
			slog.Error("Cron: Failed to get holidays", "company_id", companyID, "error", err)
			continue
		}
		holidays := make(map[string]bool, len(holidayDates))
		for _, h := range holidayDates {
			holidays[h.Format("2006-01-02")] = true
		}

		for _, emp := range employees {
			if err := j.draftForEmployee(ctx, emp, companyID, month, monthStart, monthEnd, systemCfg, holidays); err != nil {
				if errors.Is(err, payroll.ErrSalaryConfigMissing) || errors.Is(err, payroll.ErrPayslipFinalized) {
					continue
				}
				slog.Error("Cron: Failed to draft payslip",
					"employee_id", emp.ID,
					"company_id", companyID,
					"month", month,
					"error", err)
				continue
			}
			totalDrafts++
		}
	}

	slog.Info("Cron: Monthly payroll drafts generated", "month", month, "count", totalDrafts)
	return nil
}

func (j *PayrollJobs) draftForEmployee(
	ctx context.Context,
	emp employee.Employee,
	companyID, month string,
	monthStart, monthEnd time.Time,
	systemCfg payroll.SystemConfig,
	holidays map[string]bool,
) error {
	existing, err := j.payrollRepo.GetPayslipByEmployeeMonth(ctx, emp.ID, month, companyID)
	switch {
	case err == nil:
		if existing.IsFinalized {
			return payroll.ErrPayslipFinalized
		}
	case errors.Is(err, payroll.ErrPayslipNotFound):
	default:
		return err
	}

	salaryCfg, err := j.payrollRepo.GetSalaryConfig(ctx, emp.ID, companyID)
	if err != nil {
		return err
	}

	records, err := j.attendanceRepo.GetByEmployeeAndRange(ctx, emp.ID, monthStart, monthEnd, companyID)
	if err != nil {
		return err
	}
	leaves, err := j.leaveRepo.GetByEmployeeAndRange(ctx, emp.ID, monthStart, monthEnd, leave.RequestStatusApproved, companyID)
	if err != nil {
		return err
	}

	summary := attendancesvc.Aggregate(emp.ID, month, monthStart, salaryCfg.StandardWorkDays, records, leaves)

	slip, warnings, err := payrollsvc.Calculate(payrollsvc.CalculationInput{
		Salary:         salaryCfg,
		System:         systemCfg,
		Summary:        summary,
		OvertimeByDate: attendancesvc.OvertimeByDate(records),
		Holidays:       holidays,
		Dependents:     emp.Dependents,
	})
	if err != nil {
		return err
	}

	for _, w := range warnings {
		slog.Warn("Cron: Payroll calculation warning",
			"employee_id", emp.ID,
			"month", month,
			"warning", w)
	}

	slip.CompanyID = companyID
	if existing.ID != "" {
		slip.ID = existing.ID
	} else {
		slip.ID = uuid.NewString()
	}

	_, err = j.payrollRepo.UpsertDraftPayslip(ctx, slip)
	return err
}
