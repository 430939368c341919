package postgresql

import (
	"context"
	"time"

	"github.com/workpay-hq/payroll-engine-go/internal/domain/leave"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.Repository {
	return &leaveRequestRepositoryImpl{db: db}
}

// GetByEmployeeAndRange implements leave.Repository. Returns requests whose
// inclusive date range intersects [from, to], each joined with its leave type
// so callers can read the is_paid flag.
func (r *leaveRequestRepositoryImpl) GetByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, status leave.RequestStatus, companyID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT lr.id, lr.employee_id, lr.company_id, lr.leave_type_id,
			   lr.start_date, lr.end_date, lr.status,
			   lr.created_at, lr.updated_at,
			   lt.id, lt.company_id, lt.name, lt.is_paid, lt.created_at, lt.updated_at
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.employee_id = $1
		  AND lr.start_date <= $2 AND lr.end_date >= $3
		  AND lr.status = $4 AND lr.company_id = $5
		ORDER BY lr.start_date
	`

	rows, err := q.Query(ctx, query, employeeID, to, from, status, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		var lt leave.Type
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.CompanyID, &req.LeaveTypeID,
			&req.StartDate, &req.EndDate, &req.Status,
			&req.CreatedAt, &req.UpdatedAt,
			&lt.ID, &lt.CompanyID, &lt.Name, &lt.IsPaid, &lt.CreatedAt, &lt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		req.LeaveType = &lt
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
