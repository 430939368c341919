package attendance

import (
	"context"
	"time"
)

// Repository reads the attendance store. The aggregation core only consumes
// records; writes happen in the attendance subsystem that owns them.
// Duplicate rows for a date are tolerated: the aggregator de-duplicates.
type Repository interface {
	GetByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]Record, error)
	List(ctx context.Context, filter RecordFilter, companyID string) ([]Record, int64, error)
	GetByID(ctx context.Context, id, companyID string) (Record, error)
}
