package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// WalletRepository stores materialized balances. Only the ledger service writes to it.
type WalletRepository interface {
	// Get is an unlocked read for display. Never use it as an authorization check.
	Get(ctx context.Context, staffID string) (Wallet, error)

	// LockForUpdate creates the wallet row when missing and locks it until
	// the surrounding transaction ends. Concurrent money movements for the
	// same staff serialize on this lock.
	LockForUpdate(ctx context.Context, staffID string) (Wallet, error)

	SetBalance(ctx context.Context, staffID string, balance decimal.Decimal) (Wallet, error)

	// ReplayBalance recomputes approved earnings minus completed withdrawals.
	ReplayBalance(ctx context.Context, staffID string) (decimal.Decimal, error)

	ListStaffIDs(ctx context.Context) ([]string, error)

	// History replays the wallet movements, newest first.
	History(ctx context.Context, staffID string, limit int) ([]Entry, error)
}
