package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

// Attendance domain errors
var (
	ErrAttendanceNotFound  = fmt.Errorf("%w: attendance record not found", apperror.ErrNotFound)
	ErrAlreadyRecorded     = fmt.Errorf("%w: attendance already recorded for this session", apperror.ErrConflict)
	ErrPeriodLocked        = fmt.Errorf("%w: payroll for this period is no longer a draft, attendance cannot be corrected", apperror.ErrConflict)
	ErrEarningSettled      = fmt.Errorf("%w: earning for this attendance is already approved", apperror.ErrConflict)
	ErrEmptyCorrection     = fmt.Errorf("%w: correction changes nothing", apperror.ErrValidation)
	ErrCheckOutBeforeStart = fmt.Errorf("%w: check-out time is before check-in time", apperror.ErrValidation)
)
