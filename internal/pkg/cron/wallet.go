package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
)

// Reconciler is the part of the wallet service the reconciliation job needs.
type Reconciler interface {
	ReconcileWallets(ctx context.Context) ([]wallet.Divergence, error)
}

type WalletJobs struct {
	reconciler Reconciler
	logger     *slog.Logger
}

func NewWalletJobs(reconciler Reconciler, logger *slog.Logger) *WalletJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletJobs{reconciler: reconciler, logger: logger}
}

func (j *WalletJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("reconcile_wallets", interval, j.ReconcileWallets)
}

// ReconcileWallets reports diverged wallets. Healing is left to an admin.
func (j *WalletJobs) ReconcileWallets(ctx context.Context) error {
	divergences, err := j.reconciler.ReconcileWallets(ctx)
	if err != nil {
		return err
	}
	if len(divergences) > 0 {
		j.logger.WarnContext(ctx, "wallet reconciliation found diverged balances", "count", len(divergences))
		return nil
	}
	j.logger.InfoContext(ctx, "wallet reconciliation found no divergence")
	return nil
}
