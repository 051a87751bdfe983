package memory

import (
	"context"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
)

type attendanceRepo struct{ s *Store }

func (r *attendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.attendances {
		if existing.StaffID == a.StaffID && existing.HalaqahID == a.HalaqahID &&
			existing.Date.Equal(a.Date) && existing.SessionType == a.SessionType {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
	}
	if a.ID == "" {
		a.ID = newID()
	}
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.data.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.data.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepo) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.GetByID(ctx, id)
}

func (r *attendanceRepo) Update(ctx context.Context, id string, patch attendance.Patch) (attendance.Attendance, error) {
	if patch.IsEmpty() {
		return attendance.Attendance{}, attendance.ErrEmptyCorrection
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.data.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a = patch.Apply(a)
	a.UpdatedAt = r.s.now()
	r.s.data.attendances[id] = a
	return a, nil
}

func (r *attendanceRepo) CountForPeriod(ctx context.Context, staffID string, month, year int) (attendance.PeriodCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var counts attendance.PeriodCounts
	for _, a := range r.s.data.attendances {
		m, y := a.Period()
		if a.StaffID != staffID || m != month || y != year {
			continue
		}
		counts.TotalSessions++
		if a.Status.Earns() {
			counts.AttendedSessions++
		}
		if a.Status == attendance.StatusLate {
			counts.LateSessions++
		}
	}
	return counts, nil
}
