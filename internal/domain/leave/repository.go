package leave

import (
	"context"
	"time"
)

// Repository reads the leave store; each request comes joined with its leave
// type so callers can see the IsPaid flag.
type Repository interface {
	GetByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, status RequestStatus, companyID string) ([]Request, error)
}
