package finance

import "context"

// Bridge posts paid payrolls and completed withdrawals into the finance ledger.
// It must run inside the caller's transaction.
type Bridge interface {
	// PostPayment returns the id of the ledger row for the payment source,
	// posting it only when none exists yet.
	PostPayment(ctx context.Context, req PostPaymentRequest) (string, error)
}

type FinanceService interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) (ListTransactionResponse, error)
}
