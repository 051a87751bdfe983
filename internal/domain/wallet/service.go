package wallet

import (
	"context"
)

type WalletService interface {
	GetBalance(ctx context.Context, staffID string) (BalanceResponse, error)
	GetHistory(ctx context.Context, staffID string, limit int) (HistoryResponse, error)

	// RecalculateWallet is the admin-triggered heal of a diverged wallet.
	RecalculateWallet(ctx context.Context, staffID string) (RecalculateResponse, error)

	// ReconcileWallets reports every diverged wallet without changing it.
	ReconcileWallets(ctx context.Context) ([]Divergence, error)
}
