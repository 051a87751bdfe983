package attendance

import (
	"context"
)

// AttendanceService is the write path used by the check-in collaborators.
type AttendanceService interface {
	// RecordAttendance stores a session and accrues its earning and payroll counters.
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)

	// CorrectAttendance applies an admin correction while the payroll period is still a draft.
	CorrectAttendance(ctx context.Context, req CorrectAttendanceRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
}

// Accruer turns attendance writes into earnings and payroll counters. Both
// methods run inside the caller's transaction.
type Accruer interface {
	AccrueAttendance(ctx context.Context, a Attendance) error

	// ReviseAttendance reconciles earnings and the draft payroll after a correction.
	ReviseAttendance(ctx context.Context, before, after Attendance, correctedBy string) error
}
