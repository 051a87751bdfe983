package finance

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

var (
	ErrTransactionNotFound = fmt.Errorf("%w: finance transaction not found", apperror.ErrNotFound)
	ErrInvalidPayment      = fmt.Errorf("%w: payment must have a source and a positive amount", apperror.ErrValidation)
	ErrPostingFailed       = fmt.Errorf("%w: finance ledger posting failed", apperror.ErrPersistence)

	// ErrLedgerTableMissing is returned by the repository when the ledger table does not exist yet.
	ErrLedgerTableMissing = errors.New("finance ledger table missing")
)
