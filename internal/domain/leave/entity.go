package leave

import "time"

// RequestStatus of a leave request. Only approved requests feed payroll.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Type categorizes leave; IsPaid decides whether its days credit payroll.
type Type struct {
	ID        string
	CompanyID string
	Name      string
	IsPaid    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Request is one employee leave request over an inclusive date range.
type Request struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Status      RequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	LeaveType *Type
}

// IsPaid reports whether the request's joined leave type is paid.
func (r Request) IsPaid() bool {
	return r.LeaveType != nil && r.LeaveType.IsPaid
}
