package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
)

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	errBoom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Wallet().LockForUpdate(ctx, "staff-1"); err != nil {
			return err
		}
		if _, err := s.Wallet().SetBalance(ctx, "staff-1", decimal.NewFromInt(10)); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = s.Wallet().Get(ctx, "staff-1")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestWithinTransaction_NestedCallsJoin(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Wallet().LockForUpdate(ctx, "staff-1"); err != nil {
			return err
		}
		// Would deadlock on txMu if the inner call did not join.
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := s.Wallet().SetBalance(ctx, "staff-1", decimal.NewFromInt(5))
			return err
		})
	})
	require.NoError(t, err)

	w, err := s.Wallet().Get(ctx, "staff-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(w.Balance))
}

func TestFinance_ProvisionAndUniqueSource(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithoutFinanceTable())
	repo := s.Finance()

	entry := finance.Transaction{
		Type:       finance.TypeExpense,
		Category:   finance.KindWithdrawal.Category(),
		Amount:     decimal.NewFromInt(50000),
		Date:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		SourceKind: finance.KindWithdrawal,
		SourceID:   "wd-1",
	}

	_, err := repo.Insert(ctx, entry)
	assert.ErrorIs(t, err, finance.ErrLedgerTableMissing)
	_, err = repo.FindBySource(ctx, finance.KindWithdrawal, "wd-1")
	assert.ErrorIs(t, err, finance.ErrLedgerTableMissing)

	require.NoError(t, repo.ProvisionSchema(ctx))
	posted, err := repo.Insert(ctx, entry)
	require.NoError(t, err)
	assert.NotEmpty(t, posted.ID)

	_, err = repo.Insert(ctx, entry)
	assert.ErrorIs(t, err, finance.ErrPostingFailed)

	found, err := repo.FindBySource(ctx, finance.KindWithdrawal, "wd-1")
	require.NoError(t, err)
	assert.Equal(t, posted.ID, found.ID)
}

func TestActiveRateForStaff(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.ActiveRateForStaff(ctx, "staff-1", day)
	assert.ErrorIs(t, err, earning.ErrRateNotConfigured)

	s.SetStaffRole("staff-1", "MUSYRIF")
	s.SetRate(earning.SalaryRate{
		Role:            "MUSYRIF",
		CalculationType: earning.CalculationPerSession,
		Rate:            decimal.NewFromInt(50000),
		EffectiveFrom:   day.AddDate(0, -1, 0),
	})

	rate, err := s.ActiveRateForStaff(ctx, "staff-1", day)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(rate.Rate))

	_, err = s.ActiveRateForStaff(ctx, "staff-1", day.AddDate(0, -2, 0))
	assert.ErrorIs(t, err, earning.ErrRateNotConfigured)
}
