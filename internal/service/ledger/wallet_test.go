package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

func TestGetBalance_UnknownStaffIsZero(t *testing.T) {
	f := newFixture(t, ledger.DefaultPolicy())

	resp, err := f.ledger.GetBalance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", resp.StaffID)
	assertAmount(t, "0", resp.Balance)

	_, err = f.ledger.GetBalance(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestReconcileWallets_ReportsWithoutHealing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	for _, staffID := range []string{"staff-1", "staff-2", "staff-3"} {
		f.setRate(staffID, 50000)
		f.record(t, staffID, attendance.StatusPresent, 1, 2)
		f.fund(t, staffID)
	}

	divergences, err := f.ledger.ReconcileWallets(ctx)
	require.NoError(t, err)
	assert.Empty(t, divergences)

	f.store.CorruptBalance("staff-3", decimal.NewFromInt(1))
	f.store.CorruptBalance("staff-1", decimal.NewFromInt(999999))

	divergences, err = f.ledger.ReconcileWallets(ctx)
	require.NoError(t, err)
	require.Len(t, divergences, 2)
	assert.Equal(t, "staff-1", divergences[0].StaffID)
	assertAmount(t, "999999", divergences[0].Stored)
	assertAmount(t, "100000", divergences[0].Expected)
	assert.Equal(t, "staff-3", divergences[1].StaffID)

	// Reconciliation only reports.
	stored, err := f.ledger.GetBalance(ctx, "staff-1")
	require.NoError(t, err)
	assertAmount(t, "999999", stored.Balance)
}

func TestRecalculateWallet_HealsDivergence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	f.setRate("staff-h", 50000)
	f.record(t, "staff-h", attendance.StatusPresent, 1, 3)
	f.fund(t, "staff-h")

	f.store.CorruptBalance("staff-h", decimal.NewFromInt(12345))

	resp, err := f.ledger.RecalculateWallet(ctx, "staff-h")
	require.NoError(t, err)
	assert.True(t, resp.Corrected)
	assertAmount(t, "12345", resp.PreviousBalance)
	assertAmount(t, "150000", resp.Balance)
	assertAmount(t, "150000", f.assertWalletInvariant(t, "staff-h"))

	again, err := f.ledger.RecalculateWallet(ctx, "staff-h")
	require.NoError(t, err)
	assert.False(t, again.Corrected)

	divergences, err := f.ledger.ReconcileWallets(ctx)
	require.NoError(t, err)
	assert.Empty(t, divergences)
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	f.setRate("staff-hist", 50000)
	f.record(t, "staff-hist", attendance.StatusPresent, 1, 3)

	empty, err := f.ledger.GetHistory(ctx, "staff-hist", 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)

	f.fund(t, "staff-hist")
	id := f.approvedWithdrawal(t, "staff-hist", 60000)
	_, err = complete(f, id)
	require.NoError(t, err)

	history, err := f.ledger.GetHistory(ctx, "staff-hist", 10)
	require.NoError(t, err)
	require.Len(t, history.Entries, 4)
	assertAmount(t, "90000", history.Balance)

	sum := decimal.Zero
	var withdrawals int
	for _, e := range history.Entries {
		sum = sum.Add(e.Amount)
		if e.Kind == string(wallet.EntryWithdrawal) {
			withdrawals++
			assertAmount(t, "-60000", e.Amount)
		}
	}
	assert.Equal(t, 1, withdrawals)
	assertAmount(t, "90000", sum)

	limited, err := f.ledger.GetHistory(ctx, "staff-hist", 2)
	require.NoError(t, err)
	assert.Len(t, limited.Entries, 2)
}
