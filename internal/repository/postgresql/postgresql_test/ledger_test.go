package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/repository/postgresql"
)

func (p *pipeline) fund(t *testing.T, staffID string, sessions int) {
	t.Helper()
	ctx := context.Background()
	for d := 1; d <= sessions; d++ {
		_, err := p.attendance.RecordAttendance(ctx, attendance.RecordAttendanceRequest{
			StaffID:   staffID,
			HalaqahID: "halaqah-1",
			Date:      fmt.Sprintf("2025-03-%02d", d),
			Status:    "PRESENT",
		})
		require.NoError(t, err)
	}
	_, err := p.ledger.ApproveEarningsForPeriod(ctx, earning.ApprovePeriodRequest{
		StaffID:     staffID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		DecidedBy:   "admin-1",
	})
	require.NoError(t, err)
}

func (p *pipeline) approvedWithdrawal(t *testing.T, staffID string, amount int64) string {
	t.Helper()
	ctx := context.Background()
	w, err := p.ledger.RequestWithdrawal(ctx, withdrawal.RequestWithdrawalRequest{
		StaffID:       staffID,
		Amount:        decimal.NewFromInt(amount),
		BankName:      "BSI",
		BankAccount:   "7123456789",
		AccountHolder: "Ahmad",
	})
	require.NoError(t, err)
	_, err = p.ledger.ResolveWithdrawal(ctx, withdrawal.ResolveWithdrawalRequest{ID: w.ID, Action: "APPROVE", ResolvedBy: "admin-1"})
	require.NoError(t, err)
	return w.ID
}

func (p *pipeline) assertBalance(t *testing.T, staffID string, want int64) {
	t.Helper()
	ctx := context.Background()

	got, err := p.ledger.GetBalance(ctx, staffID)
	require.NoError(t, err)
	replay, err := postgresql.NewWalletRepository(p.db.DB).ReplayBalance(ctx, staffID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(want).Equal(got.Balance), "balance: want %d, got %s", want, got.Balance)
	assert.True(t, replay.Equal(got.Balance), "replay %s differs from stored %s", replay, got.Balance)
}

func TestLedger_ConcurrentCompletionsNeverOverdraw(t *testing.T) {
	p := newPipeline(t)
	p.db.SeedStaff(t, "staff-1", 50000)
	p.fund(t, "staff-1", 2)
	p.assertBalance(t, "staff-1", 100000)

	ids := []string{
		p.approvedWithdrawal(t, "staff-1", 60000),
		p.approvedWithdrawal(t, "staff-1", 70000),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = p.ledger.ResolveWithdrawal(context.Background(), withdrawal.ResolveWithdrawalRequest{
				ID:         id,
				Action:     "COMPLETE",
				ResolvedBy: "admin-1",
			})
		}(i, id)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperror.ErrInsufficientBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	txs, err := p.ledger.ListTransactions(context.Background(), finance.TransactionFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, txs.TotalCount)

	balance, err := p.ledger.GetBalance(context.Background(), "staff-1")
	require.NoError(t, err)
	assert.False(t, balance.Balance.IsNegative())
}

func TestLedger_ProvisionsDroppedFinanceTable(t *testing.T) {
	p := newPipeline(t)
	p.db.SeedStaff(t, "staff-1", 50000)
	p.fund(t, "staff-1", 2)
	id := p.approvedWithdrawal(t, "staff-1", 60000)

	_, err := p.db.DB.Exec(context.Background(), `DROP TABLE finance_transactions`)
	require.NoError(t, err)

	resp, err := p.ledger.ResolveWithdrawal(context.Background(), withdrawal.ResolveWithdrawalRequest{
		ID:         id,
		Action:     "COMPLETE",
		ResolvedBy: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	p.assertBalance(t, "staff-1", 40000)

	txs, err := p.ledger.ListTransactions(context.Background(), finance.TransactionFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, txs.Data, 1)
	assert.Equal(t, "WALLET_WITHDRAWAL", txs.Data[0].Category)
	assert.Equal(t, id, txs.Data[0].SourceID)
}

func TestLedger_CompletionIsIdempotent(t *testing.T) {
	p := newPipeline(t)
	p.db.SeedStaff(t, "staff-1", 50000)
	p.fund(t, "staff-1", 2)
	id := p.approvedWithdrawal(t, "staff-1", 50000)

	for i := 0; i < 2; i++ {
		_, err := p.ledger.ResolveWithdrawal(context.Background(), withdrawal.ResolveWithdrawalRequest{
			ID:         id,
			Action:     "COMPLETE",
			ResolvedBy: "admin-1",
		})
		require.NoError(t, err)
	}

	p.assertBalance(t, "staff-1", 50000)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	txManager := postgresql.NewTxManager(setup.DB)
	wallets := postgresql.NewWalletRepository(setup.DB)
	boom := errors.New("boom")

	err := txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := wallets.LockForUpdate(ctx, "staff-rollback"); err != nil {
			return err
		}
		// Nested calls join the outer transaction.
		return txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := wallets.SetBalance(ctx, "staff-rollback", decimal.NewFromInt(1000)); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	_, err = wallets.Get(ctx, "staff-rollback")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
