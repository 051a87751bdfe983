package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a new attendance record.
	Create(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Attendance, error)

	// Update writes exactly the fields named by the patch.
	Update(ctx context.Context, id string, patch Patch) (Attendance, error)

	// CountForPeriod aggregates one staff member's sessions for a month.
	CountForPeriod(ctx context.Context, staffID string, month, year int) (PeriodCounts, error)
}
