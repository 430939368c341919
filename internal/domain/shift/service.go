package shift

import "context"

// ShiftService exposes the shift catalog and the overlap validation used by
// registration/approval flows.
type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	ListShifts(ctx context.Context, branchID, date string) ([]ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error

	// ValidateShifts groups the entries by date and reports every
	// overlapping pair within each group.
	ValidateShifts(ctx context.Context, req ValidateShiftsRequest) (ValidationResult, error)
}
