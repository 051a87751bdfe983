package withdrawal

import "context"

type WithdrawalService interface {
	// RequestWithdrawal validates the request against the current balance and
	// the minimum amount. No money moves until completion.
	RequestWithdrawal(ctx context.Context, req RequestWithdrawalRequest) (WithdrawalResponse, error)

	// ResolveWithdrawal applies an admin action. COMPLETE re-checks the balance
	// under the wallet lock, posts to the finance ledger and debits the wallet.
	ResolveWithdrawal(ctx context.Context, req ResolveWithdrawalRequest) (WithdrawalResponse, error)

	GetWithdrawal(ctx context.Context, id string) (WithdrawalResponse, error)
	ListWithdrawals(ctx context.Context, filter WithdrawalFilter) (ListWithdrawalResponse, error)
}
