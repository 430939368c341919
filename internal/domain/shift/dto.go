package shift

// CreateShiftRequest creates a shift catalog entry for a branch.
type CreateShiftRequest struct {
	BranchID  *string `json:"branch_id"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}

// DateShiftEntry is one (date, shift) pair submitted for batch validation,
// e.g. by a registration or approval flow.
type DateShiftEntry struct {
	Date  string    `json:"date"`
	Shift ShiftTime `json:"shift"`
}

// ValidateShiftsRequest is the batch overlap-validation payload.
type ValidateShiftsRequest struct {
	Entries []DateShiftEntry `json:"entries"`
}

// ConflictResult is the outcome of an all-pairs scan over one shift list.
type ConflictResult struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts"`
}

// DateConflictError is one overlap found while validating shifts grouped by
// date, flattened into a display-ready record.
type DateConflictError struct {
	Date         string        `json:"date"`
	Shift1Name   string        `json:"shift1_name"`
	Shift2Name   string        `json:"shift2_name"`
	OverlapRange *OverlapRange `json:"overlap_range,omitempty"`
	Message      string        `json:"message"`
}

// ValidationResult is the batch validation outcome.
type ValidationResult struct {
	IsValid bool                `json:"is_valid"`
	Errors  []DateConflictError `json:"errors"`
}

// ShiftResponse is the API shape of a shift catalog entry.
type ShiftResponse struct {
	ID        string  `json:"id"`
	BranchID  *string `json:"branch_id,omitempty"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}
