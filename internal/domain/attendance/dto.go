package attendance

import (
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/validator"
)

// MonthlySummary is the aggregate consumed by payroll for one employee and
// month. TotalWorkDays = ActualWorkDays + PaidLeaveDays.
type MonthlySummary struct {
	EmployeeID         string  `json:"employee_id"`
	Month              string  `json:"month"`
	StandardWorkDays   int     `json:"standard_work_days"`
	ActualWorkDays     int     `json:"actual_work_days"`
	PaidLeaveDays      int     `json:"paid_leave_days"`
	TotalWorkDays      int     `json:"total_work_days"`
	TotalHours         float64 `json:"total_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}

// SummaryRequest asks for one employee's monthly aggregate.
type SummaryRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"` // "YYYY-MM"
}

func (r *SummaryRequest) Validate() error {
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

// RecordFilter narrows admin attendance listings.
type RecordFilter struct {
	EmployeeID string
	Month      string
	Status     string
	Page       int
	Limit      int
}

// RecordResponse is the API shape of one attendance record.
type RecordResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name,omitempty"`
	Date          string   `json:"date"`
	CheckIn       *string  `json:"check_in,omitempty"`
	CheckOut      *string  `json:"check_out,omitempty"`
	HoursWorked   *float64 `json:"hours_worked,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Status        string   `json:"status"`
}

// ListRecordResponse is a paginated attendance listing.
type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}
