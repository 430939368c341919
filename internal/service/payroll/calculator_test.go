package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func vnSystemConfig() payroll.SystemConfig {
	return payroll.SystemConfig{
		PersonalDeduction:  d("11000000"),
		DependentDeduction: d("4400000"),
		InsuranceCapBase:   d("36000000"),
		TaxBrackets: []payroll.TaxBracket{
			{UpTo: d("5000000"), Rate: d("0.05")},
			{UpTo: d("10000000"), Rate: d("0.10")},
			{Rate: d("0.15")},
		},
	}
}

func baseSalaryConfig() payroll.SalaryConfig {
	return payroll.SalaryConfig{
		EmployeeID:          "emp-1",
		BaseSalary:          d("22000000"),
		StandardWorkDays:    22,
		StandardHoursPerDay: 8,
		OTMultiplierWeekday: d("1.5"),
		OTMultiplierWeekend: d("2"),
		OTMultiplierHoliday: d("3"),
		InsuranceRate:       d("0.105"),
	}
}

func TestCalculate_FullMonth(t *testing.T) {
	in := CalculationInput{
		Salary: func() payroll.SalaryConfig {
			cfg := baseSalaryConfig()
			cfg.Allowances = []payroll.Allowance{{Name: "Lunch", Amount: d("1000000")}}
			return cfg
		}(),
		System: vnSystemConfig(),
		Summary: attendance.MonthlySummary{
			EmployeeID:    "emp-1",
			Month:         "2026-03",
			ActualWorkDays: 20,
			PaidLeaveDays:  2,
			TotalWorkDays:  22,
		},
		OvertimeByDate: map[string]float64{
			"2026-03-03": 4, // Tuesday
			"2026-03-07": 2, // Saturday
			"2026-03-02": 1, // declared holiday
		},
		Holidays:   map[string]bool{"2026-03-02": true},
		Dependents: 1,
	}

	slip, warnings, err := Calculate(in)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// hourly rate = 22,000,000 / 176 = 125,000
	// OT = 4*125k*1.5 + 2*125k*2 + 1*125k*3 = 750k + 500k + 375k
	assert.True(t, slip.OvertimePay.Equal(d("1625000")), "overtime pay = %s", slip.OvertimePay)
	assert.InDelta(t, 7.0, slip.OvertimeHours, 1e-9)
	assert.True(t, slip.GrossSalary.Equal(d("24625000")), "gross = %s", slip.GrossSalary)
	assert.True(t, slip.InsuranceDeduction.Equal(d("2585625")), "insurance = %s", slip.InsuranceDeduction)

	// taxable = 24,625,000 - 2,585,625 - 11,000,000 - 4,400,000 = 6,639,375
	// PIT = 5,000,000*0.05 + 1,639,375*0.10 = 413,937.5 -> 413,938
	assert.True(t, slip.PITDeduction.Equal(d("413938")), "pit = %s", slip.PITDeduction)
	assert.True(t, slip.NetSalary.Equal(d("21625438")), "net = %s", slip.NetSalary)
}

func TestCalculate_Proration(t *testing.T) {
	t.Run("half the standard days earns half the base", func(t *testing.T) {
		in := CalculationInput{
			Salary:  baseSalaryConfig(),
			System:  vnSystemConfig(),
			Summary: attendance.MonthlySummary{EmployeeID: "emp-1", Month: "2026-03", TotalWorkDays: 11},
		}
		slip, _, err := Calculate(in)
		require.NoError(t, err)
		// 11,000,000 gross, below every deduction threshold after insurance
		assert.True(t, slip.GrossSalary.Equal(d("11000000")), "gross = %s", slip.GrossSalary)
	})

	t.Run("days beyond standard do not inflate base pay", func(t *testing.T) {
		in := CalculationInput{
			Salary:  baseSalaryConfig(),
			System:  vnSystemConfig(),
			Summary: attendance.MonthlySummary{EmployeeID: "emp-1", Month: "2026-03", TotalWorkDays: 25},
		}
		slip, _, err := Calculate(in)
		require.NoError(t, err)
		assert.True(t, slip.GrossSalary.Equal(d("22000000")), "gross = %s", slip.GrossSalary)
	})

	t.Run("zero standard work days is a config error, not a panic", func(t *testing.T) {
		cfg := baseSalaryConfig()
		cfg.StandardWorkDays = 0
		_, _, err := Calculate(CalculationInput{Salary: cfg, System: vnSystemConfig()})
		assert.ErrorIs(t, err, payroll.ErrInvalidSalaryConfig)
	})
}

func TestCalculate_InsuranceCap(t *testing.T) {
	cfg := baseSalaryConfig()
	cfg.BaseSalary = d("80000000")

	in := CalculationInput{
		Salary:  cfg,
		System:  vnSystemConfig(),
		Summary: attendance.MonthlySummary{EmployeeID: "emp-1", Month: "2026-03", TotalWorkDays: 22},
	}
	slip, _, err := Calculate(in)
	require.NoError(t, err)

	// gross 80M exceeds the 36M cap: insurance = 36M * 0.105
	assert.True(t, slip.InsuranceDeduction.Equal(d("3780000")), "insurance = %s", slip.InsuranceDeduction)

	// zero cap means uncapped
	sys := vnSystemConfig()
	sys.InsuranceCapBase = decimal.Zero
	in.System = sys
	slip, _, err = Calculate(in)
	require.NoError(t, err)
	assert.True(t, slip.InsuranceDeduction.Equal(d("8400000")), "insurance = %s", slip.InsuranceDeduction)
}

func TestCalculate_Clamps(t *testing.T) {
	t.Run("misconfigured insurance rate cannot push net below zero", func(t *testing.T) {
		cfg := baseSalaryConfig()
		cfg.InsuranceRate = d("1.2")

		slip, warnings, err := Calculate(CalculationInput{
			Salary:  cfg,
			System:  vnSystemConfig(),
			Summary: attendance.MonthlySummary{EmployeeID: "emp-1", Month: "2026-03", TotalWorkDays: 22},
		})
		require.NoError(t, err)
		assert.True(t, slip.NetSalary.IsZero(), "net = %s", slip.NetSalary)
		assert.NotEmpty(t, warnings)
	})

	t.Run("negative allowance is dropped with a warning", func(t *testing.T) {
		cfg := baseSalaryConfig()
		cfg.Allowances = []payroll.Allowance{{Name: "Broken", Amount: d("-500000")}}

		slip, warnings, err := Calculate(CalculationInput{
			Salary:  cfg,
			System:  vnSystemConfig(),
			Summary: attendance.MonthlySummary{EmployeeID: "emp-1", Month: "2026-03", TotalWorkDays: 22},
		})
		require.NoError(t, err)
		assert.True(t, slip.AllowanceTotal.IsZero())
		assert.Len(t, warnings, 1)
	})
}

func TestClassifyDay(t *testing.T) {
	holidays := map[string]bool{"2026-03-02": true, "2026-03-07": true}

	tests := []struct {
		date string
		want DayClass
	}{
		{"2026-03-03", DayClassWeekday},  // Tuesday
		{"2026-03-07", DayClassHoliday},  // Saturday, but holiday wins
		{"2026-03-08", DayClassWeekend},  // Sunday
		{"2026-03-02", DayClassHoliday},  // Monday holiday
		{"not-a-date", DayClassWeekday},  // unparseable degrades to weekday
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDay(tt.date, holidays), tt.date)
	}
}

func TestProgressiveTax(t *testing.T) {
	brackets := vnSystemConfig().TaxBrackets

	tests := []struct {
		name    string
		taxable string
		want    string
	}{
		{"zero income", "0", "0"},
		{"negative income", "-100", "0"},
		{"inside first bracket", "3000000", "150000"},
		{"exactly at first threshold", "5000000", "250000"},
		{"spanning two brackets", "8000000", "550000"},
		{"into the unbounded tail", "15000000", "1500000"}, // 250k + 500k + 750k
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progressiveTax(d(tt.taxable), brackets)
			assert.True(t, got.Equal(d(tt.want)), "tax = %s", got)
		})
	}
}
