package finance

import "context"

// Repository is the storage of the general finance ledger.
//
//go:generate mockgen -destination=mock/repository_mock.go -package=mock . Repository
type Repository interface {
	// Insert appends tx. It returns ErrLedgerTableMissing when the table has
	// not been provisioned, leaving the surrounding transaction usable.
	Insert(ctx context.Context, tx Transaction) (Transaction, error)

	// FindBySource returns the transaction posted for a payment source, or ErrTransactionNotFound.
	FindBySource(ctx context.Context, kind PaymentKind, sourceID string) (Transaction, error)

	// ProvisionSchema creates the ledger table and its indexes if missing.
	ProvisionSchema(ctx context.Context) error

	List(ctx context.Context, filter TransactionFilter) ([]Transaction, int64, error)
}
