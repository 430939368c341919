package shift

import (
	"context"
	"time"
)

// ShiftRepository is the shift catalog store. All methods are scoped by
// companyID to prevent cross-company data access.
type ShiftRepository interface {
	Create(ctx context.Context, s ShiftTime) (ShiftTime, error)
	GetByID(ctx context.Context, id, companyID string) (ShiftTime, error)
	GetByCompanyID(ctx context.Context, companyID string) ([]ShiftTime, error)
	GetShiftsForDate(ctx context.Context, branchID string, date time.Time, companyID string) ([]ShiftTime, error)
	Delete(ctx context.Context, id, companyID string) error
}
