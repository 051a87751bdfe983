package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

var (
	ErrPayrollNotFound       = fmt.Errorf("%w: payroll not found", apperror.ErrNotFound)
	ErrSalaryPaymentNotFound = fmt.Errorf("%w: salary payment not found", apperror.ErrNotFound)
	ErrPayrollNotDraft       = fmt.Errorf("%w: payroll is no longer a draft", apperror.ErrConflict)
	ErrPayrollNotApproved    = fmt.Errorf("%w: payroll must be approved before payment", apperror.ErrConflict)
	ErrPayrollAlreadyPaid    = fmt.Errorf("%w: payroll already paid", apperror.ErrConflict)
	ErrReopenNotSupported    = fmt.Errorf("%w: payroll cannot be reopened", apperror.ErrConflict)
	ErrInvalidTransition     = fmt.Errorf("%w: invalid payroll status transition", apperror.ErrConflict)
	ErrSalaryPaymentExists   = fmt.Errorf("%w: salary payment already exists for payroll", apperror.ErrConflict)
	ErrNegativeNetSalary     = fmt.Errorf("%w: deductions exceed gross salary", apperror.ErrValidation)
)
