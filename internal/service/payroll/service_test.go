package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/employee"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
)

type fakePayrollRepo struct {
	salaryConfigs map[string]payroll.SalaryConfig // by employee ID
	settings      payroll.Settings
	holidays      []time.Time
	payslips      map[string]payroll.MonthlyPayslip // by payslip ID
	upserts       int
}

func (f *fakePayrollRepo) GetSalaryConfig(_ context.Context, employeeID, _ string) (payroll.SalaryConfig, error) {
	cfg, ok := f.salaryConfigs[employeeID]
	if !ok {
		return payroll.SalaryConfig{}, payroll.ErrSalaryConfigMissing
	}
	return cfg, nil
}

func (f *fakePayrollRepo) UpsertSalaryConfig(_ context.Context, cfg payroll.SalaryConfig) (payroll.SalaryConfig, error) {
	if f.salaryConfigs == nil {
		f.salaryConfigs = map[string]payroll.SalaryConfig{}
	}
	cfg.ID = "cfg-" + cfg.EmployeeID
	f.salaryConfigs[cfg.EmployeeID] = cfg
	return cfg, nil
}

func (f *fakePayrollRepo) GetSettings(_ context.Context, _ string) (payroll.Settings, error) {
	return f.settings, nil
}

func (f *fakePayrollRepo) UpsertSettings(_ context.Context, _ string, settings payroll.Settings) error {
	if f.settings == nil {
		f.settings = payroll.Settings{}
	}
	for k, v := range settings {
		f.settings[k] = v
	}
	return nil
}

func (f *fakePayrollRepo) GetHolidayDates(_ context.Context, _ string, _, _ time.Time) ([]time.Time, error) {
	return f.holidays, nil
}

func (f *fakePayrollRepo) UpsertDraftPayslip(_ context.Context, p payroll.MonthlyPayslip) (payroll.MonthlyPayslip, error) {
	if existing, ok := f.payslips[p.ID]; ok && existing.IsFinalized {
		return payroll.MonthlyPayslip{}, payroll.ErrPayslipFinalized
	}
	if f.payslips == nil {
		f.payslips = map[string]payroll.MonthlyPayslip{}
	}
	f.payslips[p.ID] = p
	f.upserts++
	return p, nil
}

func (f *fakePayrollRepo) GetPayslipByID(_ context.Context, id, _ string) (payroll.MonthlyPayslip, error) {
	p, ok := f.payslips[id]
	if !ok {
		return payroll.MonthlyPayslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (f *fakePayrollRepo) GetPayslipByEmployeeMonth(_ context.Context, employeeID, month, _ string) (payroll.MonthlyPayslip, error) {
	for _, p := range f.payslips {
		if p.EmployeeID == employeeID && p.Month == month {
			return p, nil
		}
	}
	return payroll.MonthlyPayslip{}, payroll.ErrPayslipNotFound
}

func (f *fakePayrollRepo) ListPayslips(_ context.Context, _ string, _ payroll.PayslipFilter) ([]payroll.MonthlyPayslip, int64, error) {
	out := make([]payroll.MonthlyPayslip, 0, len(f.payslips))
	for _, p := range f.payslips {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) FinalizePayslips(_ context.Context, ids []string, finalizedBy, _ string) (int64, error) {
	var affected int64
	now := time.Now()
	for _, id := range ids {
		p, ok := f.payslips[id]
		if !ok || p.IsFinalized {
			continue
		}
		p.IsFinalized = true
		p.FinalizedAt = &now
		p.FinalizedBy = &finalizedBy
		f.payslips[id] = p
		affected++
	}
	return affected, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id, _ string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, _ string) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.employees))
	for _, emp := range f.employees {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) GetByEmployeeAndRange(_ context.Context, employeeID string, _, _ time.Time, _ string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, _ attendance.RecordFilter, _ string) ([]attendance.Record, int64, error) {
	return f.records, int64(len(f.records)), nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, _, _ string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (f *fakeLeaveRepo) GetByEmployeeAndRange(_ context.Context, employeeID string, _, _ time.Time, status leave.RequestStatus, _ string) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.EmployeeID == employeeID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	tok, err := jwt.NewBuilder().
		Claim("company_id", "co-1").
		Claim("user_id", "user-1").
		Build()
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func workDays(employeeID string, month time.Month, days int) []attendance.Record {
	records := make([]attendance.Record, 0, days)
	for i := 1; i <= days; i++ {
		records = append(records, attendance.Record{
			EmployeeID: employeeID,
			Date:       time.Date(2026, month, i, 0, 0, 0, 0, time.UTC),
		})
	}
	return records
}

func newTestService(payrollRepo *fakePayrollRepo, employeeRepo *fakeEmployeeRepo, attendanceRepo *fakeAttendanceRepo, leaveRepo *fakeLeaveRepo) payroll.PayrollService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPayrollService(nil, payrollRepo, employeeRepo, attendanceRepo, leaveRepo, logger)
}

func testSettings() payroll.Settings {
	return payroll.Settings{
		payroll.KeyPersonalDeduction:  d("11000000"),
		payroll.KeyDependentDeduction: d("4400000"),
		payroll.KeyInsuranceCapBase:   d("36000000"),
		"tax.bracket.1.up_to":         d("5000000"),
		"tax.bracket.1.rate":          d("0.05"),
		"tax.bracket.2.up_to":         d("10000000"),
		"tax.bracket.2.rate":          d("0.10"),
		"tax.bracket.3.rate":          d("0.15"),
	}
}

func TestCalculate_Service(t *testing.T) {
	ctx := authedContext(t)

	t.Run("unsaved draft does not touch the store", func(t *testing.T) {
		repo := &fakePayrollRepo{
			salaryConfigs: map[string]payroll.SalaryConfig{"emp-1": baseSalaryConfig()},
			settings:      testSettings(),
		}
		svc := newTestService(repo,
			&fakeEmployeeRepo{employees: map[string]employee.Employee{
				"emp-1": {ID: "emp-1", Code: "E001", Name: "Nguyen Van A", IsActive: true},
			}},
			&fakeAttendanceRepo{records: workDays("emp-1", 3, 22)},
			&fakeLeaveRepo{},
		)

		resp, err := svc.Calculate(ctx, &payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2026-03"})
		require.NoError(t, err)
		assert.Equal(t, 0, repo.upserts)
		assert.Equal(t, "Nguyen Van A", resp.EmployeeName)
		assert.Equal(t, 22, resp.TotalWorkDays)
		assert.False(t, resp.IsFinalized)
		assert.True(t, resp.GrossSalary.Equal(d("22000000")), "gross = %s", resp.GrossSalary)
	})

	t.Run("save persists a draft", func(t *testing.T) {
		repo := &fakePayrollRepo{
			salaryConfigs: map[string]payroll.SalaryConfig{"emp-1": baseSalaryConfig()},
			settings:      testSettings(),
		}
		svc := newTestService(repo,
			&fakeEmployeeRepo{employees: map[string]employee.Employee{
				"emp-1": {ID: "emp-1", Code: "E001", Name: "Nguyen Van A", IsActive: true},
			}},
			&fakeAttendanceRepo{records: workDays("emp-1", 3, 20)},
			&fakeLeaveRepo{},
		)

		resp, err := svc.Calculate(ctx, &payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2026-03", Save: true})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.upserts)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("finalized month refuses recalculation", func(t *testing.T) {
		repo := &fakePayrollRepo{
			salaryConfigs: map[string]payroll.SalaryConfig{"emp-1": baseSalaryConfig()},
			settings:      testSettings(),
			payslips: map[string]payroll.MonthlyPayslip{
				"slip-1": {ID: "slip-1", EmployeeID: "emp-1", Month: "2026-03", IsFinalized: true},
			},
		}
		svc := newTestService(repo,
			&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": {ID: "emp-1", IsActive: true}}},
			&fakeAttendanceRepo{},
			&fakeLeaveRepo{},
		)

		_, err := svc.Calculate(ctx, &payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2026-03"})
		assert.ErrorIs(t, err, payroll.ErrPayslipFinalized)
	})

	t.Run("missing salary config", func(t *testing.T) {
		svc := newTestService(
			&fakePayrollRepo{settings: testSettings()},
			&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": {ID: "emp-1", IsActive: true}}},
			&fakeAttendanceRepo{},
			&fakeLeaveRepo{},
		)

		_, err := svc.Calculate(ctx, &payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2026-03"})
		assert.ErrorIs(t, err, payroll.ErrSalaryConfigMissing)
	})

	t.Run("paid leave credits work days", func(t *testing.T) {
		paid := &leave.Type{Name: "Annual", IsPaid: true}
		repo := &fakePayrollRepo{
			salaryConfigs: map[string]payroll.SalaryConfig{"emp-1": baseSalaryConfig()},
			settings:      testSettings(),
		}
		svc := newTestService(repo,
			&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": {ID: "emp-1", IsActive: true}}},
			&fakeAttendanceRepo{records: workDays("emp-1", 3, 20)},
			&fakeLeaveRepo{requests: []leave.Request{{
				EmployeeID: "emp-1",
				StartDate:  time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC),
				EndDate:    time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC),
				Status:     leave.RequestStatusApproved,
				LeaveType:  paid,
			}}},
		)

		resp, err := svc.Calculate(ctx, &payroll.CalculateRequest{EmployeeID: "emp-1", Month: "2026-03"})
		require.NoError(t, err)
		assert.Equal(t, 20, resp.ActualWorkDays)
		assert.Equal(t, 2, resp.PaidLeaveDays)
		assert.Equal(t, 22, resp.TotalWorkDays)
		assert.True(t, resp.GrossSalary.Equal(d("22000000")), "gross = %s", resp.GrossSalary)
	})
}

func TestRunMonthly(t *testing.T) {
	ctx := authedContext(t)

	repo := &fakePayrollRepo{
		salaryConfigs: map[string]payroll.SalaryConfig{"emp-1": baseSalaryConfig()},
		settings:      testSettings(),
	}
	svc := newTestService(repo,
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"emp-1": {ID: "emp-1", Code: "E001", Name: "Nguyen Van A", IsActive: true},
			"emp-2": {ID: "emp-2", Code: "E002", Name: "Tran Thi B", IsActive: true}, // no salary config
		}},
		&fakeAttendanceRepo{records: workDays("emp-1", 3, 22)},
		&fakeLeaveRepo{},
	)

	resp, err := svc.RunMonthly(ctx, &payroll.RunPayrollRequest{Month: "2026-03"})
	require.NoError(t, err, "one bad employee must not fail the batch")

	assert.Len(t, resp.Payslips, 1)
	assert.Equal(t, "emp-1", resp.Payslips[0].EmployeeID)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "emp-2", resp.Errors[0].EmployeeID)
	assert.Equal(t, 1, repo.upserts, "successful drafts are saved")
}

func TestFinalize(t *testing.T) {
	ctx := authedContext(t)

	newRepo := func() *fakePayrollRepo {
		return &fakePayrollRepo{payslips: map[string]payroll.MonthlyPayslip{
			"slip-1": {ID: "slip-1", EmployeeID: "emp-1", Month: "2026-03"},
			"slip-2": {ID: "slip-2", EmployeeID: "emp-2", Month: "2026-03", IsFinalized: true},
		}}
	}

	t.Run("finalizes drafts", func(t *testing.T) {
		repo := newRepo()
		svc := newTestService(repo, &fakeEmployeeRepo{}, &fakeAttendanceRepo{}, &fakeLeaveRepo{})

		err := svc.Finalize(ctx, &payroll.FinalizeRequest{PayslipIDs: []string{"slip-1"}})
		require.NoError(t, err)
		assert.True(t, repo.payslips["slip-1"].IsFinalized)
		assert.Equal(t, "user-1", *repo.payslips["slip-1"].FinalizedBy)
	})

	t.Run("already finalized payslip in the batch", func(t *testing.T) {
		svc := newTestService(newRepo(), &fakeEmployeeRepo{}, &fakeAttendanceRepo{}, &fakeLeaveRepo{})

		err := svc.Finalize(ctx, &payroll.FinalizeRequest{PayslipIDs: []string{"slip-1", "slip-2"}})
		assert.ErrorIs(t, err, payroll.ErrPayslipFinalized)
	})

	t.Run("nothing to finalize", func(t *testing.T) {
		svc := newTestService(newRepo(), &fakeEmployeeRepo{}, &fakeAttendanceRepo{}, &fakeLeaveRepo{})

		err := svc.Finalize(ctx, &payroll.FinalizeRequest{PayslipIDs: []string{"missing"}})
		assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
	})
}

func TestUpdateSettings(t *testing.T) {
	ctx := authedContext(t)

	t.Run("valid update is merged and saved", func(t *testing.T) {
		repo := &fakePayrollRepo{settings: testSettings()}
		svc := newTestService(repo, &fakeEmployeeRepo{}, &fakeAttendanceRepo{}, &fakeLeaveRepo{})

		err := svc.UpdateSettings(ctx, &payroll.UpdateSettingsRequest{Settings: map[string]decimal.Decimal{
			payroll.KeyPersonalDeduction: d("15000000"),
		}})
		require.NoError(t, err)
		assert.True(t, repo.settings[payroll.KeyPersonalDeduction].Equal(d("15000000")))
	})

	t.Run("update producing an invalid config is rejected", func(t *testing.T) {
		repo := &fakePayrollRepo{settings: testSettings()}
		svc := newTestService(repo, &fakeEmployeeRepo{}, &fakeAttendanceRepo{}, &fakeLeaveRepo{})

		err := svc.UpdateSettings(ctx, &payroll.UpdateSettingsRequest{Settings: map[string]decimal.Decimal{
			"tax.bracket.1.rate": d("2"), // rate above 100%
		}})
		assert.ErrorIs(t, err, payroll.ErrInvalidSystemConfig)
		assert.True(t, repo.settings["tax.bracket.1.rate"].Equal(d("0.05")), "store untouched")
	})
}
