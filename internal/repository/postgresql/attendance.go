package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, staff_id, halaqah_id, date, status, check_in_time, check_out_time, session_type, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.StaffID,
		&a.HalaqahID,
		&a.Date,
		&a.Status,
		&a.CheckInTime,
		&a.CheckOutTime,
		&a.SessionType,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = newID()
	}
	query := `
		INSERT INTO attendances (
			id, staff_id, halaqah_id, date, status,
			check_in_time, check_out_time, session_type,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.StaffID, a.HalaqahID, a.Date, a.Status,
		a.CheckInTime, a.CheckOutTime, a.SessionType,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.get(ctx, id, "")
}

func (r *attendanceRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *attendanceRepositoryImpl) get(ctx context.Context, id, lock string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1` + lock
	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) Update(ctx context.Context, id string, patch attendance.Patch) (attendance.Attendance, error) {
	if patch.IsEmpty() {
		return attendance.Attendance{}, attendance.ErrEmptyCorrection
	}
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIdx := 2

	if patch.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *patch.Status)
		argIdx++
	}
	if patch.CheckInTime != nil {
		setParts = append(setParts, fmt.Sprintf("check_in_time = $%d", argIdx))
		args = append(args, *patch.CheckInTime)
		argIdx++
	}
	if patch.CheckOutTime != nil {
		setParts = append(setParts, fmt.Sprintf("check_out_time = $%d", argIdx))
		args = append(args, *patch.CheckOutTime)
	}

	query := fmt.Sprintf(`UPDATE attendances SET %s WHERE id = $1 RETURNING %s`, strings.Join(setParts, ", "), attendanceColumns)
	a, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) CountForPeriod(ctx context.Context, staffID string, month, year int) (attendance.PeriodCounts, error) {
	q := GetQuerier(ctx, r.db)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('PRESENT', 'LATE')),
			COUNT(*) FILTER (WHERE status = 'LATE')
		FROM attendances
		WHERE staff_id = $1 AND date >= $2 AND date < $3
	`
	var counts attendance.PeriodCounts
	err := q.QueryRow(ctx, query, staffID, start, end).Scan(
		&counts.TotalSessions,
		&counts.AttendedSessions,
		&counts.LateSessions,
	)
	if err != nil {
		return attendance.PeriodCounts{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	return counts, nil
}
