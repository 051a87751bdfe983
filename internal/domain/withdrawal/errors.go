package withdrawal

import (
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

var (
	ErrWithdrawalNotFound  = fmt.Errorf("%w: withdrawal not found", apperror.ErrNotFound)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid withdrawal status transition", apperror.ErrConflict)
	ErrNotApproved         = fmt.Errorf("%w: withdrawal must be approved before completion", apperror.ErrConflict)
	ErrAlreadyResolved     = fmt.Errorf("%w: withdrawal is already resolved", apperror.ErrConflict)
	ErrInsufficientBalance = fmt.Errorf("%w: wallet balance is lower than the withdrawal amount", apperror.ErrInsufficientBalance)
	ErrRejectionReason     = fmt.Errorf("%w: rejection reason is required", apperror.ErrValidation)
	ErrUnknownAction       = fmt.Errorf("%w: action must be one of APPROVE, REJECT, COMPLETE", apperror.ErrValidation)
	ErrNotOwner            = fmt.Errorf("%w: withdrawals can only be requested for yourself", apperror.ErrForbidden)
)
