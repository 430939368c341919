package employee

import "time"

// Employee carries what payroll needs: identity, dependents for tax
// deductions and the active flag that scopes batch runs.
type Employee struct {
	ID         string
	CompanyID  string
	Code       string
	Name       string
	BranchID   *string
	Dependents int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
