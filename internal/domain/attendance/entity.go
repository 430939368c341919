package attendance

import (
	"time"
)

// Status of a single attendance record. Pending until check-out lands.
type Status string

const (
	StatusPending    Status = "pending"
	StatusOntime     Status = "ontime"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
)

// Record is one employee's attendance for one work date. Records are
// append-only: created on check-in, finalized on check-out, corrected by
// administrative override, never deleted.
type Record struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	ShiftID       *string
	CheckIn       *time.Time
	CheckOut      *time.Time
	HoursWorked   *float64
	OvertimeHours *float64
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName *string
}
