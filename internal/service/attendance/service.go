package attendance

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	accruer        attendance.Accruer
	logger         *slog.Logger
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	accruer attendance.Accruer,
	logger *slog.Logger,
) attendance.AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		accruer:        accruer,
		logger:         logger,
	}
}

// RecordAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	record, err := req.Parse()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var created attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.attendanceRepo.Create(ctx, record)
		if err != nil {
			return err
		}
		return s.accruer.AccrueAttendance(ctx, created)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.logger.InfoContext(ctx, "attendance recorded",
		"attendance_id", created.ID,
		"staff_id", created.StaffID,
		"status", string(created.Status),
	)
	return created.ToResponse(), nil
}

// CorrectAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CorrectAttendance(ctx context.Context, req attendance.CorrectAttendanceRequest) (attendance.AttendanceResponse, error) {
	patch, err := req.Patch()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var corrected attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := s.attendanceRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		after := patch.Apply(before)
		if after.CheckInTime != nil && after.CheckOutTime != nil && after.CheckOutTime.Before(*after.CheckInTime) {
			return attendance.ErrCheckOutBeforeStart
		}

		corrected, err = s.attendanceRepo.Update(ctx, before.ID, patch)
		if err != nil {
			return err
		}
		return s.accruer.ReviseAttendance(ctx, before, corrected, req.CorrectedBy)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.logger.InfoContext(ctx, "attendance corrected",
		"attendance_id", corrected.ID,
		"staff_id", corrected.StaffID,
		"status", string(corrected.Status),
		"corrected_by", req.CorrectedBy,
	)
	return corrected.ToResponse(), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	a, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.ToResponse(), nil
}
