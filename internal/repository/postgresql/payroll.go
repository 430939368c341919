package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

// GetSalaryConfig implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetSalaryConfig(ctx context.Context, employeeID, companyID string) (payroll.SalaryConfig, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, employee_id, company_id, base_salary,
			   standard_work_days, standard_hours_per_day,
			   ot_multiplier_weekday, ot_multiplier_weekend, ot_multiplier_holiday,
			   insurance_rate, allowances,
			   created_at, updated_at
		FROM salary_configs
		WHERE employee_id = $1 AND company_id = $2
	`

	var cfg payroll.SalaryConfig
	var allowancesJSON []byte

	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&cfg.ID, &cfg.EmployeeID, &cfg.CompanyID, &cfg.BaseSalary,
		&cfg.StandardWorkDays, &cfg.StandardHoursPerDay,
		&cfg.OTMultiplierWeekday, &cfg.OTMultiplierWeekend, &cfg.OTMultiplierHoliday,
		&cfg.InsuranceRate, &allowancesJSON,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryConfig{}, payroll.ErrSalaryConfigMissing
		}
		return payroll.SalaryConfig{}, err
	}

	if allowancesJSON != nil {
		json.Unmarshal(allowancesJSON, &cfg.Allowances)
	}

	return cfg, nil
}

// UpsertSalaryConfig implements payroll.PayrollRepository. One config per
// employee; a second write replaces the first.
func (r *payrollRepositoryImpl) UpsertSalaryConfig(ctx context.Context, cfg payroll.SalaryConfig) (payroll.SalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	allowancesJSON, _ := json.Marshal(cfg.Allowances)

	query := `
		INSERT INTO salary_configs (
			id, employee_id, company_id, base_salary,
			standard_work_days, standard_hours_per_day,
			ot_multiplier_weekday, ot_multiplier_weekend, ot_multiplier_holiday,
			insurance_rate, allowances,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, company_id) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			standard_work_days = EXCLUDED.standard_work_days,
			standard_hours_per_day = EXCLUDED.standard_hours_per_day,
			ot_multiplier_weekday = EXCLUDED.ot_multiplier_weekday,
			ot_multiplier_weekend = EXCLUDED.ot_multiplier_weekend,
			ot_multiplier_holiday = EXCLUDED.ot_multiplier_holiday,
			insurance_rate = EXCLUDED.insurance_rate,
			allowances = EXCLUDED.allowances,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		cfg.EmployeeID, cfg.CompanyID, cfg.BaseSalary,
		cfg.StandardWorkDays, cfg.StandardHoursPerDay,
		cfg.OTMultiplierWeekday, cfg.OTMultiplierWeekend, cfg.OTMultiplierHoliday,
		cfg.InsuranceRate, allowancesJSON,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return payroll.SalaryConfig{}, err
	}

	return cfg, nil
}

// GetSettings implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetSettings(ctx context.Context, companyID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT key, value
		FROM payroll_settings
		WHERE company_id = $1
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := payroll.Settings{}
	for rows.Next() {
		var key string
		var value decimal.Decimal
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpsertSettings implements payroll.PayrollRepository. Keys not present in
// the map keep their stored value.
func (r *payrollRepositoryImpl) UpsertSettings(ctx context.Context, companyID string, settings payroll.Settings) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payroll_settings (company_id, key, value, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (company_id, key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = NOW()
		`
		for key, value := range settings {
			if _, err := tx.Exec(ctx, query, companyID, key, value); err != nil {
				return fmt.Errorf("failed to upsert setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// GetHolidayDates implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetHolidayDates(ctx context.Context, companyID string, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT date
		FROM holidays
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

const payslipColumns = `
	p.id, p.employee_id, p.company_id, p.month,
	p.standard_work_days, p.actual_work_days, p.paid_leave_days, p.total_work_days,
	p.overtime_hours, p.base_salary, p.overtime_pay, p.allowance_total,
	p.gross_salary, p.insurance_deduction, p.pit_deduction, p.net_salary,
	p.is_finalized, p.finalized_at, p.finalized_by,
	p.created_at, p.updated_at`

func scanPayslip(row pgx.Row) (payroll.MonthlyPayslip, error) {
	var p payroll.MonthlyPayslip
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.Month,
		&p.StandardWorkDays, &p.ActualWorkDays, &p.PaidLeaveDays, &p.TotalWorkDays,
		&p.OvertimeHours, &p.BaseSalary, &p.OvertimePay, &p.AllowanceTotal,
		&p.GrossSalary, &p.InsuranceDeduction, &p.PITDeduction, &p.NetSalary,
		&p.IsFinalized, &p.FinalizedAt, &p.FinalizedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// UpsertDraftPayslip implements payroll.PayrollRepository. The conditional
// update leaves finalized rows untouched; a run against one comes back as
// ErrPayslipFinalized.
func (r *payrollRepositoryImpl) UpsertDraftPayslip(ctx context.Context, p payroll.MonthlyPayslip) (payroll.MonthlyPayslip, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payslips (
			id, employee_id, company_id, month,
			standard_work_days, actual_work_days, paid_leave_days, total_work_days,
			overtime_hours, base_salary, overtime_pay, allowance_total,
			gross_salary, insurance_deduction, pit_deduction, net_salary,
			is_finalized, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			false, NOW(), NOW()
		)
		ON CONFLICT (employee_id, company_id, month) DO UPDATE SET
			standard_work_days = EXCLUDED.standard_work_days,
			actual_work_days = EXCLUDED.actual_work_days,
			paid_leave_days = EXCLUDED.paid_leave_days,
			total_work_days = EXCLUDED.total_work_days,
			overtime_hours = EXCLUDED.overtime_hours,
			base_salary = EXCLUDED.base_salary,
			overtime_pay = EXCLUDED.overtime_pay,
			allowance_total = EXCLUDED.allowance_total,
			gross_salary = EXCLUDED.gross_salary,
			insurance_deduction = EXCLUDED.insurance_deduction,
			pit_deduction = EXCLUDED.pit_deduction,
			net_salary = EXCLUDED.net_salary,
			updated_at = NOW()
		WHERE payslips.is_finalized = false
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.CompanyID, p.Month,
		p.StandardWorkDays, p.ActualWorkDays, p.PaidLeaveDays, p.TotalWorkDays,
		p.OvertimeHours, p.BaseSalary, p.OvertimePay, p.AllowanceTotal,
		p.GrossSalary, p.InsuranceDeduction, p.PITDeduction, p.NetSalary,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		// The upsert returns no row only when the WHERE clause rejected a
		// finalized target.
		if err == pgx.ErrNoRows {
			return payroll.MonthlyPayslip{}, payroll.ErrPayslipFinalized
		}
		return payroll.MonthlyPayslip{}, err
	}

	return p, nil
}

// GetPayslipByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetPayslipByID(ctx context.Context, id, companyID string) (payroll.MonthlyPayslip, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + payslipColumns + `, e.name, e.code
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`

	var p payroll.MonthlyPayslip
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.Month,
		&p.StandardWorkDays, &p.ActualWorkDays, &p.PaidLeaveDays, &p.TotalWorkDays,
		&p.OvertimeHours, &p.BaseSalary, &p.OvertimePay, &p.AllowanceTotal,
		&p.GrossSalary, &p.InsuranceDeduction, &p.PITDeduction, &p.NetSalary,
		&p.IsFinalized, &p.FinalizedAt, &p.FinalizedBy,
		&p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.MonthlyPayslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.MonthlyPayslip{}, err
	}
	return p, nil
}

// GetPayslipByEmployeeMonth implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetPayslipByEmployeeMonth(ctx context.Context, employeeID, month, companyID string) (payroll.MonthlyPayslip, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		WHERE p.employee_id = $1 AND p.month = $2 AND p.company_id = $3
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, employeeID, month, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.MonthlyPayslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.MonthlyPayslip{}, err
	}
	return p, nil
}

// ListPayslips implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListPayslips(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.MonthlyPayslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "p.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Month != "" {
		where += fmt.Sprintf(" AND p.month = $%d", argIdx)
		args = append(args, filter.Month)
		argIdx++
	}
	if filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Finalized != nil {
		where += fmt.Sprintf(" AND p.is_finalized = $%d", argIdx)
		args = append(args, *filter.Finalized)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM payslips p WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + payslipColumns + `, e.name, e.code
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY p.month DESC, e.code
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payslips []payroll.MonthlyPayslip
	for rows.Next() {
		var p payroll.MonthlyPayslip
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.CompanyID, &p.Month,
			&p.StandardWorkDays, &p.ActualWorkDays, &p.PaidLeaveDays, &p.TotalWorkDays,
			&p.OvertimeHours, &p.BaseSalary, &p.OvertimePay, &p.AllowanceTotal,
			&p.GrossSalary, &p.InsuranceDeduction, &p.PITDeduction, &p.NetSalary,
			&p.IsFinalized, &p.FinalizedAt, &p.FinalizedBy,
			&p.CreatedAt, &p.UpdatedAt,
			&p.EmployeeName, &p.EmployeeCode,
		); err != nil {
			return nil, 0, err
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return payslips, total, nil
}

// FinalizePayslips implements payroll.PayrollRepository. Conditional update:
// only draft rows flip, and the affected count tells the service whether some
// of the requested payslips were already locked or missing.
func (r *payrollRepositoryImpl) FinalizePayslips(ctx context.Context, ids []string, finalizedBy, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payslips
		SET is_finalized = true,
			finalized_at = NOW(),
			finalized_by = NULLIF($1, ''),
			updated_at = NOW()
		WHERE id = ANY($2) AND company_id = $3 AND is_finalized = false
	`

	commandTag, err := q.Exec(ctx, query, finalizedBy, ids, companyID)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}
