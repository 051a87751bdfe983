package wallet

import (
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

var (
	ErrWalletNotFound  = fmt.Errorf("%w: wallet not found", apperror.ErrNotFound)
	ErrNegativeBalance = fmt.Errorf("%w: wallet balance would become negative", apperror.ErrInsufficientBalance)
	ErrStaffIDRequired = fmt.Errorf("%w: staff id is required", apperror.ErrValidation)
)
