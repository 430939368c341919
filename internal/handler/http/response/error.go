package response

import (
	"errors"
	"net/http"

	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/employee"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/shift"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift name already exists")
	case errors.Is(err, shift.ErrInvalidTimeFormat):
		BadRequest(w, "Invalid time format, use HH:MM", nil)
	case errors.Is(err, shift.ErrInvalidDateFormat):
		BadRequest(w, "Invalid date format, use YYYY-MM-DD", nil)
	case errors.Is(err, shift.ErrInvalidRequestData):
		BadRequest(w, "Invalid request data", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidMonth):
		BadRequest(w, "Invalid month, use YYYY-MM", nil)
	case errors.Is(err, attendance.ErrInvalidTimeFormat):
		BadRequest(w, "Invalid time format, use HH:MM", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSalaryConfigMissing):
		NotFound(w, "Salary config not found for employee")
	case errors.Is(err, payroll.ErrSystemConfigMissing):
		NotFound(w, "Payroll system config not found")
	case errors.Is(err, payroll.ErrInvalidSalaryConfig):
		BadRequest(w, "Salary config is invalid", nil)
	case errors.Is(err, payroll.ErrInvalidSystemConfig):
		BadRequest(w, "Payroll system config is invalid", nil)
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, "Invalid month, use YYYY-MM", nil)
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayslipFinalized):
		Conflict(w, "Payslip already finalized")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
