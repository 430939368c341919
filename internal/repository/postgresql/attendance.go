package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/attendance"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

// GetByEmployeeAndRange implements attendance.Repository. Range is inclusive.
func (r *attendanceRepositoryImpl) GetByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ar.id, ar.employee_id, ar.company_id, ar.date, ar.shift_id,
			   ar.check_in, ar.check_out, ar.hours_worked, ar.overtime_hours, ar.status,
			   ar.created_at, ar.updated_at
		FROM attendance_records ar
		WHERE ar.employee_id = $1 AND ar.date BETWEEN $2 AND $3 AND ar.company_id = $4
		ORDER BY ar.date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.ShiftID,
			&rec.CheckIn, &rec.CheckOut, &rec.HoursWorked, &rec.OvertimeHours, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// List implements attendance.Repository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.RecordFilter, companyID string) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "ar.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND ar.employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Month != "" {
		where += fmt.Sprintf(" AND to_char(ar.date, 'YYYY-MM') = $%d", argIdx)
		args = append(args, filter.Month)
		argIdx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND ar.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records ar WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ar.id, ar.employee_id, ar.company_id, ar.date, ar.shift_id,
			   ar.check_in, ar.check_out, ar.hours_worked, ar.overtime_hours, ar.status,
			   ar.created_at, ar.updated_at,
			   e.name
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY ar.date DESC, e.name
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.ShiftID,
			&rec.CheckIn, &rec.CheckOut, &rec.HoursWorked, &rec.OvertimeHours, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// GetByID implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ar.id, ar.employee_id, ar.company_id, ar.date, ar.shift_id,
			   ar.check_in, ar.check_out, ar.hours_worked, ar.overtime_hours, ar.status,
			   ar.created_at, ar.updated_at,
			   e.name
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		WHERE ar.id = $1 AND ar.company_id = $2
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.ShiftID,
		&rec.CheckIn, &rec.CheckOut, &rec.HoursWorked, &rec.OvertimeHours, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}
