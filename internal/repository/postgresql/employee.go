package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/employee"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, code, name, branch_id, dependents, is_active,
			   created_at, updated_at
		FROM employees
		WHERE id = $1 AND company_id = $2
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.Code, &emp.Name, &emp.BranchID, &emp.Dependents, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, code, name, branch_id, dependents, is_active,
			   created_at, updated_at
		FROM employees
		WHERE company_id = $1 AND is_active = true
		ORDER BY code
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.CompanyID, &emp.Code, &emp.Name, &emp.BranchID, &emp.Dependents, &emp.IsActive,
			&emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}
