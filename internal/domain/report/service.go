package report

import (
	"context"
	"time"
)

// ReportService derives attendance classifications. Computation is pure per
// (employee, day); range reports fan out per employee-day.
type ReportService interface {
	// GetDailyStatus resolves one employee's classification for a date.
	GetDailyStatus(ctx context.Context, employeeID string, date time.Time) (DailyStatus, error)

	// GetRangeReport resolves classifications for every day in the range,
	// for one or all employees.
	GetRangeReport(ctx context.Context, filter RangeFilter) ([]DailyStatus, error)
}
