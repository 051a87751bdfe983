package earning

import (
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

var (
	ErrEarningNotFound    = fmt.Errorf("%w: earning not found", apperror.ErrNotFound)
	ErrEarningNotPending  = fmt.Errorf("%w: earning has already been decided", apperror.ErrConflict)
	ErrRateNotConfigured  = fmt.Errorf("%w: no active salary rate for role", apperror.ErrConfiguration)
	ErrNegativeAmount     = fmt.Errorf("%w: earning amount must not be negative", apperror.ErrValidation)
	ErrUnearnedAttendance = fmt.Errorf("%w: attendance status does not produce an earning", apperror.ErrValidation)
	ErrInvalidCalculation = fmt.Errorf("%w: unknown calculation type", apperror.ErrConfiguration)
)
