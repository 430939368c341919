package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/payroll"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.Repository
	leaveRepo      leave.Repository
	payrollRepo    payroll.PayrollRepository
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	payrollRepo payroll.PayrollRepository,
) attendance.Service {
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		payrollRepo:    payrollRepo,
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

// GetMonthlySummary implements attendance.Service.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, req attendance.SummaryRequest) (attendance.MonthlySummary, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.MonthlySummary{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.MonthlySummary{}, err
	}

	monthStart, ok := validator.IsValidMonth(req.Month)
	if !ok {
		return attendance.MonthlySummary{}, attendance.ErrInvalidMonth
	}
	monthEnd := monthStart.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.GetByEmployeeAndRange(ctx, req.EmployeeID, monthStart, monthEnd, companyID)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to get attendance records: %w", err)
	}

	leaves, err := s.leaveRepo.GetByEmployeeAndRange(ctx, req.EmployeeID, monthStart, monthEnd, leave.RequestStatusApproved, companyID)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to get leave requests: %w", err)
	}

	// Without a salary config the standard-days baseline is simply unknown;
	// the counters themselves are still useful.
	standardWorkDays := 0
	cfg, err := s.payrollRepo.GetSalaryConfig(ctx, req.EmployeeID, companyID)
	switch {
	case err == nil:
		standardWorkDays = cfg.StandardWorkDays
	case errors.Is(err, payroll.ErrSalaryConfigMissing):
	default:
		return attendance.MonthlySummary{}, fmt.Errorf("failed to get salary config: %w", err)
	}

	return Aggregate(req.EmployeeID, req.Month, monthStart, standardWorkDays, records, leaves), nil
}

// ListRecords implements attendance.Service.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.ListRecordResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Month != "" {
		if _, ok := validator.IsValidMonth(filter.Month); !ok {
			return attendance.ListRecordResponse{}, attendance.ErrInvalidMonth
		}
	}

	records, total, err := s.attendanceRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapToRecordResponse(r))
	}

	return attendance.ListRecordResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    responses,
	}, nil
}

func mapToRecordResponse(r attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Date:          r.Date.Format(dateLayout),
		HoursWorked:   r.HoursWorked,
		OvertimeHours: r.OvertimeHours,
		Status:        string(r.Status),
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.CheckIn != nil {
		v := r.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if r.CheckOut != nil {
		v := r.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}
