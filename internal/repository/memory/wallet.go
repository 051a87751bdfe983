package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/shopspring/decimal"
)

type walletRepo struct{ s *Store }

func (r *walletRepo) Get(ctx context.Context, staffID string) (wallet.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.data.wallets[staffID]
	if !ok {
		return wallet.Wallet{}, wallet.ErrWalletNotFound
	}
	return w, nil
}

// LockForUpdate relies on the store's serialized transactions for exclusion.
func (r *walletRepo) LockForUpdate(ctx context.Context, staffID string) (wallet.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.data.wallets[staffID]
	if !ok {
		w = wallet.Wallet{StaffID: staffID, Balance: decimal.Zero, UpdatedAt: r.s.now()}
		r.s.data.wallets[staffID] = w
	}
	return w, nil
}

func (r *walletRepo) SetBalance(ctx context.Context, staffID string, balance decimal.Decimal) (wallet.Wallet, error) {
	if balance.IsNegative() {
		return wallet.Wallet{}, wallet.ErrNegativeBalance
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.data.wallets[staffID]
	if !ok {
		return wallet.Wallet{}, wallet.ErrWalletNotFound
	}
	w.Balance = balance
	w.UpdatedAt = r.s.now()
	r.s.data.wallets[staffID] = w
	return w, nil
}

func (r *walletRepo) ReplayBalance(ctx context.Context, staffID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	balance := decimal.Zero
	for _, e := range r.s.data.earnings {
		if e.StaffID == staffID && e.Status == earning.StatusApproved {
			balance = balance.Add(e.Amount)
		}
	}
	for _, w := range r.s.data.withdrawals {
		if w.StaffID == staffID && w.Status == withdrawal.StatusCompleted {
			balance = balance.Sub(w.Amount)
		}
	}
	return balance, nil
}

func (r *walletRepo) ListStaffIDs(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[string]struct{}{}
	for id := range r.s.data.wallets {
		seen[id] = struct{}{}
	}
	for _, e := range r.s.data.earnings {
		if e.Status == earning.StatusApproved {
			seen[e.StaffID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *walletRepo) History(ctx context.Context, staffID string, limit int) ([]wallet.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []wallet.Entry
	for _, e := range r.s.data.earnings {
		if e.StaffID != staffID || e.Status != earning.StatusApproved {
			continue
		}
		at := e.CreatedAt
		if e.DecidedAt != nil {
			at = *e.DecidedAt
		}
		entries = append(entries, wallet.Entry{Kind: wallet.EntryEarning, SourceID: e.ID, Amount: e.Amount, OccurredAt: at})
	}
	for _, w := range r.s.data.withdrawals {
		if w.StaffID != staffID || w.Status != withdrawal.StatusCompleted || w.CompletedAt == nil {
			continue
		}
		entries = append(entries, wallet.Entry{Kind: wallet.EntryWithdrawal, SourceID: w.ID, Amount: w.Amount.Neg(), OccurredAt: *w.CompletedAt})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// CorruptBalance overwrites a stored balance without touching the ledger rows.
func (s *Store) CorruptBalance(staffID string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.data.wallets[staffID]
	w.StaffID = staffID
	w.Balance = balance
	s.data.wallets[staffID] = w
}
