package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

// earningsOf returns every earning recorded for one attendance.
func earningsOf(f *fixture, staffID, attendanceID string) []earning.Earning {
	var out []earning.Earning
	for _, e := range f.store.Earnings(staffID) {
		if e.AttendanceID != nil && *e.AttendanceID == attendanceID {
			out = append(out, e)
		}
	}
	return out
}

func TestDecideEarning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	f.setRate("staff-e", 50000)
	sessions := f.record(t, "staff-e", attendance.StatusPresent, 1, 2)

	first := earningsOf(f, "staff-e", sessions[0].ID)
	second := earningsOf(f, "staff-e", sessions[1].ID)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, earning.StatusPending, first[0].Status)
	assertAmount(t, "0", f.assertWalletInvariant(t, "staff-e"))

	approved, err := f.ledger.ApproveEarning(ctx, earning.DecideEarningRequest{ID: first[0].ID, DecidedBy: adminID})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	assertAmount(t, "50000", f.assertWalletInvariant(t, "staff-e"))

	_, err = f.ledger.ApproveEarning(ctx, earning.DecideEarningRequest{ID: first[0].ID, DecidedBy: adminID})
	assert.ErrorIs(t, err, earning.ErrEarningNotPending)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assertAmount(t, "50000", f.assertWalletInvariant(t, "staff-e"))

	rejected, err := f.ledger.RejectEarning(ctx, earning.DecideEarningRequest{ID: second[0].ID, DecidedBy: adminID})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)
	assertAmount(t, "50000", f.assertWalletInvariant(t, "staff-e"))

	// A rejected earning drops out of the draft base salary; the session still counts.
	draft := marchPayroll(t, f, "staff-e")
	assertAmount(t, "50000", draft.BaseSalary)
	assert.Equal(t, 2, draft.AttendedSessions)

	_, err = f.ledger.ApproveEarning(ctx, earning.DecideEarningRequest{ID: "missing", DecidedBy: adminID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApproveEarningsForPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	f.setRate("staff-a", 50000)
	f.record(t, "staff-a", attendance.StatusPresent, 1, 3)
	f.record(t, "staff-a", attendance.StatusSick, 4, 1)

	req := earning.ApprovePeriodRequest{StaffID: "staff-a", PeriodMonth: 3, PeriodYear: 2025, DecidedBy: adminID}
	resp, err := f.ledger.ApproveEarningsForPeriod(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Approved)
	assertAmount(t, "150000", resp.Amount)
	assertAmount(t, "150000", f.assertWalletInvariant(t, "staff-a"))

	again, err := f.ledger.ApproveEarningsForPeriod(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Approved)
	assertAmount(t, "150000", f.assertWalletInvariant(t, "staff-a"))

	_, err = f.ledger.ApproveEarningsForPeriod(ctx, earning.ApprovePeriodRequest{StaffID: "staff-a", PeriodMonth: 13, PeriodYear: 2025})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.ledger.ApproveEarningsForPeriod(ctx, earning.ApprovePeriodRequest{StaffID: " ", PeriodMonth: 3, PeriodYear: 25})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs.ToMap(), "staff_id")
	assert.Contains(t, fieldErrs.ToMap(), "period")

	status := earning.StatusApproved
	list, err := f.ledger.ListEarnings(ctx, earning.Filter{StaffID: strPtr("staff-a"), Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.TotalCount)
	assert.Equal(t, 1, list.Page)
}

func TestAutoApprovedEarningsSettleImmediately(t *testing.T) {
	policy := ledger.DefaultPolicy()
	policy.AutoApproveEarnings = true
	f := newFixture(t, policy)
	f.setRate("staff-auto", 50000)

	f.record(t, "staff-auto", attendance.StatusLate, 1, 2)

	assertAmount(t, "100000", f.assertWalletInvariant(t, "staff-auto"))
	for _, e := range f.store.Earnings("staff-auto") {
		assert.Equal(t, earning.StatusApproved, e.Status)
	}
}

func TestCorrectAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	f.setRate("staff-c", 50000)
	sessions := f.record(t, "staff-c", attendance.StatusPresent, 1, 2)

	draft := marchPayroll(t, f, "staff-c")
	assertAmount(t, "100000", draft.BaseSalary)
	assertAmount(t, "100000", draft.AttendanceBonus)

	corrected, err := f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID:          sessions[1].ID,
		Status:      strPtr("ABSENT"),
		CorrectedBy: adminID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ABSENT", corrected.Status)

	earnings := earningsOf(f, "staff-c", sessions[1].ID)
	require.Len(t, earnings, 1)
	assert.Equal(t, earning.StatusRejected, earnings[0].Status)

	draft = marchPayroll(t, f, "staff-c")
	assert.Equal(t, 2, draft.TotalSessions)
	assert.Equal(t, 1, draft.AttendedSessions)
	assertAmount(t, "50000", draft.BaseSalary)
	assertAmount(t, "0", draft.AttendanceBonus)

	// Back to PRESENT accrues a fresh earning; the rejected one stays for audit.
	_, err = f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID:          sessions[1].ID,
		Status:      strPtr("PRESENT"),
		CorrectedBy: adminID,
	})
	require.NoError(t, err)
	assert.Len(t, earningsOf(f, "staff-c", sessions[1].ID), 2)

	draft = marchPayroll(t, f, "staff-c")
	assertAmount(t, "100000", draft.BaseSalary)
	assertAmount(t, "100000", draft.AttendanceBonus)
}

// liveEarning returns the one earning of attendanceID that is not rejected.
func liveEarning(t *testing.T, f *fixture, staffID, attendanceID string) earning.Earning {
	t.Helper()
	var live []earning.Earning
	for _, e := range earningsOf(f, staffID, attendanceID) {
		if e.Status != earning.StatusRejected {
			live = append(live, e)
		}
	}
	require.Len(t, live, 1)
	return live[0]
}

func TestCorrectAttendance_CheckOutRepricesHourlyEarning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ledger.DefaultPolicy())
	hourly := func(rate int64) earning.SalaryRate {
		return earning.SalaryRate{
			Role:            "PENGAJAR",
			CalculationType: earning.CalculationPerHour,
			Rate:            decimal.NewFromInt(rate),
			EffectiveFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	f.store.SetStaffRole("staff-h", "PENGAJAR")
	f.store.SetRate(hourly(30000))

	checkIn := "2025-03-04T08:00:00Z"
	session, err := f.attendance.RecordAttendance(ctx, attendance.RecordAttendanceRequest{
		StaffID:     "staff-h",
		HalaqahID:   "halaqah-1",
		Date:        "2025-03-04",
		Status:      "PRESENT",
		CheckInTime: &checkIn,
	})
	require.NoError(t, err)

	open := liveEarning(t, f, "staff-h", session.ID)
	assert.Equal(t, 0, open.SessionDurationMinutes)
	assertAmount(t, "0", open.Amount)

	_, err = f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID:           session.ID,
		CheckOutTime: strPtr("2025-03-04T10:00:00Z"),
		CorrectedBy:  adminID,
	})
	require.NoError(t, err)

	priced := liveEarning(t, f, "staff-h", session.ID)
	assert.Equal(t, earning.StatusPending, priced.Status)
	assert.Equal(t, 120, priced.SessionDurationMinutes)
	assertAmount(t, "60000", priced.Amount)
	assert.Len(t, earningsOf(f, "staff-h", session.ID), 2)
	assertAmount(t, "60000", marchPayroll(t, f, "staff-h").BaseSalary)

	// A later rate change does not leak into the repriced amount.
	f.store.SetRate(hourly(40000))
	_, err = f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID:           session.ID,
		CheckOutTime: strPtr("2025-03-04T09:30:00Z"),
		CorrectedBy:  adminID,
	})
	require.NoError(t, err)

	repriced := liveEarning(t, f, "staff-h", session.ID)
	assert.Equal(t, 90, repriced.SessionDurationMinutes)
	assertAmount(t, "30000", repriced.Rate)
	assertAmount(t, "45000", repriced.Amount)
	assertAmount(t, "45000", marchPayroll(t, f, "staff-h").BaseSalary)

	// Once approved, the amount is settled.
	_, err = f.ledger.ApproveEarning(ctx, earning.DecideEarningRequest{ID: repriced.ID, DecidedBy: adminID})
	require.NoError(t, err)
	_, err = f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID:           session.ID,
		CheckOutTime: strPtr("2025-03-04T11:00:00Z"),
		CorrectedBy:  adminID,
	})
	assert.ErrorIs(t, err, attendance.ErrEarningSettled)
	assertAmount(t, "45000", liveEarning(t, f, "staff-h", session.ID).Amount)
	f.assertWalletInvariant(t, "staff-h")
}

func TestCorrectAttendance_Conflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("approved earning cannot be undone", func(t *testing.T) {
		f := newFixture(t, ledger.DefaultPolicy())
		f.setRate("staff-s", 50000)
		sessions := f.record(t, "staff-s", attendance.StatusPresent, 1, 1)
		f.fund(t, "staff-s")

		_, err := f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
			ID:          sessions[0].ID,
			Status:      strPtr("ABSENT"),
			CorrectedBy: adminID,
		})
		assert.ErrorIs(t, err, attendance.ErrEarningSettled)
		assert.ErrorIs(t, err, apperror.ErrConflict)

		// The whole correction rolled back.
		got, err := f.attendance.GetAttendance(ctx, sessions[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "PRESENT", got.Status)
		assertAmount(t, "50000", f.assertWalletInvariant(t, "staff-s"))
	})

	t.Run("approved payroll locks the period", func(t *testing.T) {
		f := newFixture(t, ledger.DefaultPolicy())
		f.setRate("staff-l", 50000)
		sessions := f.record(t, "staff-l", attendance.StatusPresent, 1, 2)

		draft := marchPayroll(t, f, "staff-l")
		_, err := f.ledger.ApprovePayroll(ctx, payroll.ApprovePayrollRequest{ID: draft.ID, ApprovedBy: adminID})
		require.NoError(t, err)

		_, err = f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
			ID:          sessions[0].ID,
			Status:      strPtr("SICK"),
			CorrectedBy: adminID,
		})
		assert.ErrorIs(t, err, attendance.ErrPeriodLocked)

		frozen := marchPayroll(t, f, "staff-l")
		assert.Equal(t, "APPROVED", frozen.Status)
		assertAmount(t, "100000", frozen.BaseSalary)
	})

	t.Run("empty correction", func(t *testing.T) {
		f := newFixture(t, ledger.DefaultPolicy())
		_, err := f.attendance.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{ID: "any"})
		assert.ErrorIs(t, err, attendance.ErrEmptyCorrection)
	})
}

func TestRecordAttendance_Duplicate(t *testing.T) {
	f := newFixture(t, ledger.DefaultPolicy())
	f.setRate("staff-d", 50000)
	f.record(t, "staff-d", attendance.StatusPresent, 1, 1)

	_, err := f.attendance.RecordAttendance(context.Background(), attendance.RecordAttendanceRequest{
		StaffID:   "staff-d",
		HalaqahID: "halaqah-1",
		Date:      "2025-03-01",
		Status:    "PRESENT",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyRecorded)
	assert.Len(t, f.store.Earnings("staff-d"), 1)
}
