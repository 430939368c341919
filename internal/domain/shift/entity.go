package shift

import "time"

// ShiftTime is a scheduled work interval within a single day. Times are
// wall-clock "HH:MM" strings, zero-padded. An overnight shift has
// EndTime < StartTime (e.g. 22:00 -> 06:00) and spans midnight.
type ShiftTime struct {
	ID        string
	CompanyID string
	BranchID  *string
	Name      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PairKind enumerates the overnight combinations a pair of shifts can form.
// Keeping the cases explicit makes the tested combinations auditable.
type PairKind int

const (
	PairNonOvernight PairKind = iota
	PairOneOvernight
	PairBothOvernight
)

// OverlapRange is the intersection of two shifts, formatted back to "HH:MM".
type OverlapRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Conflict is one overlapping pair found by an all-pairs scan.
type Conflict struct {
	Shift1       ShiftTime     `json:"shift1"`
	Shift2       ShiftTime     `json:"shift2"`
	OverlapRange *OverlapRange `json:"overlap_range,omitempty"`
}
