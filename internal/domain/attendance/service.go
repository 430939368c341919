package attendance

import (
	"context"
)

// Service exposes attendance aggregation to payroll and to the admin API.
type Service interface {
	// GetMonthlySummary aggregates one employee's records and approved paid
	// leave into the counters payroll consumes.
	GetMonthlySummary(ctx context.Context, req SummaryRequest) (MonthlySummary, error)

	// ListRecords retrieves raw attendance records (admin view).
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
}
