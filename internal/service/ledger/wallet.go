package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ========== WALLET ==========

// GetBalance is an unlocked display read. A staff member without a wallet row has a zero balance.
func (s *Service) GetBalance(ctx context.Context, staffID string) (wallet.BalanceResponse, error) {
	if staffID == "" {
		return wallet.BalanceResponse{}, wallet.ErrStaffIDRequired
	}
	w, err := s.walletRepo.Get(ctx, staffID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return wallet.Wallet{StaffID: staffID, Balance: decimal.Zero}.ToResponse(), nil
		}
		return wallet.BalanceResponse{}, err
	}
	return w.ToResponse(), nil
}

func (s *Service) GetHistory(ctx context.Context, staffID string, limit int) (wallet.HistoryResponse, error) {
	balance, err := s.GetBalance(ctx, staffID)
	if err != nil {
		return wallet.HistoryResponse{}, err
	}

	entries, err := s.walletRepo.History(ctx, staffID, limit)
	if err != nil {
		return wallet.HistoryResponse{}, err
	}

	resp := wallet.HistoryResponse{
		StaffID: staffID,
		Balance: balance.Balance,
		Entries: make([]wallet.EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, wallet.EntryResponse{
			Kind:       string(e.Kind),
			SourceID:   e.SourceID,
			Amount:     e.Amount,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *Service) RecalculateWallet(ctx context.Context, staffID string) (wallet.RecalculateResponse, error) {
	if staffID == "" {
		return wallet.RecalculateResponse{}, wallet.ErrStaffIDRequired
	}

	var resp wallet.RecalculateResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		previous, err := s.walletRepo.LockForUpdate(ctx, staffID)
		if err != nil {
			return err
		}
		settled, err := s.settleWallet(ctx, staffID)
		if err != nil {
			return err
		}
		resp = wallet.RecalculateResponse{
			StaffID:         staffID,
			PreviousBalance: previous.Balance,
			Balance:         settled.Balance,
			Corrected:       !previous.Balance.Equal(settled.Balance),
		}
		return nil
	})
	if err != nil {
		return wallet.RecalculateResponse{}, err
	}

	if resp.Corrected {
		s.logger.InfoContext(ctx, "wallet recalculated",
			"staff_id", staffID,
			"previous_balance", resp.PreviousBalance.String(),
			"balance", resp.Balance.String(),
		)
	}
	return resp, nil
}

// ReconcileWallets compares every stored balance with its replay sum and logs
// a warning per divergence. Nothing is corrected here.
func (s *Service) ReconcileWallets(ctx context.Context) ([]wallet.Divergence, error) {
	staffIDs, err := s.walletRepo.ListStaffIDs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu          sync.Mutex
		divergences []wallet.Divergence
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.reconcileWorkers)
	for _, staffID := range staffIDs {
		staffID := staffID
		g.Go(func() error {
			stored := decimal.Zero
			w, err := s.walletRepo.Get(gctx, staffID)
			switch {
			case err == nil:
				stored = w.Balance
			case !errors.Is(err, wallet.ErrWalletNotFound):
				return err
			}

			expected, err := s.walletRepo.ReplayBalance(gctx, staffID)
			if err != nil {
				return err
			}
			if stored.Equal(expected) {
				return nil
			}

			s.logger.WarnContext(gctx, "wallet balance diverges from ledger replay",
				"staff_id", staffID,
				"stored_balance", stored.String(),
				"expected_balance", expected.String(),
			)
			mu.Lock()
			divergences = append(divergences, wallet.Divergence{StaffID: staffID, Stored: stored, Expected: expected})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(divergences, func(i, j int) bool {
		return divergences[i].StaffID < divergences[j].StaffID
	})
	return divergences, nil
}
