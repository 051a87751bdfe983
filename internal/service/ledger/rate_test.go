package ledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	earningmock "github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning/mock"
	notificationmock "github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification/mock"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/halaqah-payroll-go/internal/service/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

// newRateFixture wires the ledger to a mocked rate provider.
func newRateFixture(t *testing.T) (*memory.Store, attendance.AttendanceService, *earningmock.MockRateProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rates := earningmock.NewMockRateProvider(ctrl)
	publisher := notificationmock.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	svc := ledger.NewService(store, ledger.Repositories{
		Attendance: store.Attendance(),
		Earning:    store.Earning(),
		Wallet:     store.Wallet(),
		Payroll:    store.Payroll(),
		Withdrawal: store.Withdrawal(),
		Finance:    store.Finance(),
	}, rates, publisher, ledger.DefaultPolicy(), logger)

	return store, attendancesvc.NewAttendanceService(store, store.Attendance(), svc, logger), rates
}

func TestAccrual_FallsBackToDefaultRate(t *testing.T) {
	store, attendanceSvc, rates := newRateFixture(t)
	rates.EXPECT().
		ActiveRateForStaff(gomock.Any(), "staff-1", gomock.Any()).
		Return(earning.SalaryRate{}, earning.ErrRateNotConfigured)

	_, err := attendanceSvc.RecordAttendance(context.Background(), attendance.RecordAttendanceRequest{
		StaffID:   "staff-1",
		HalaqahID: "halaqah-1",
		Date:      "2025-03-03",
		Status:    "PRESENT",
	})
	require.NoError(t, err)

	earnings := store.Earnings("staff-1")
	require.Len(t, earnings, 1)
	assert.Equal(t, earning.CalculationPerSession, earnings[0].CalculationType)
	assertAmount(t, "50000", earnings[0].Amount)
}

func TestAccrual_PricesHourlyRateFromProvider(t *testing.T) {
	store, attendanceSvc, rates := newRateFixture(t)
	rates.EXPECT().
		ActiveRateForStaff(gomock.Any(), "staff-1", gomock.Any()).
		Return(earning.SalaryRate{
			Role:            "PENGAJAR",
			CalculationType: earning.CalculationPerHour,
			Rate:            decimal.NewFromInt(30000),
		}, nil)

	checkIn, checkOut := "2025-03-03T07:00:00Z", "2025-03-03T08:30:00Z"
	_, err := attendanceSvc.RecordAttendance(context.Background(), attendance.RecordAttendanceRequest{
		StaffID:      "staff-1",
		HalaqahID:    "halaqah-1",
		Date:         "2025-03-03",
		Status:       "LATE",
		CheckInTime:  &checkIn,
		CheckOutTime: &checkOut,
	})
	require.NoError(t, err)

	earnings := store.Earnings("staff-1")
	require.Len(t, earnings, 1)
	assert.Equal(t, 90, earnings[0].SessionDurationMinutes)
	assertAmount(t, "45000", earnings[0].Amount)
}

func TestAccrual_ProviderFailureRollsBackAttendance(t *testing.T) {
	store, attendanceSvc, rates := newRateFixture(t)
	dbErr := errors.New("connection refused")
	gomock.InOrder(
		rates.EXPECT().ActiveRateForStaff(gomock.Any(), "staff-1", gomock.Any()).Return(earning.SalaryRate{}, dbErr),
		rates.EXPECT().ActiveRateForStaff(gomock.Any(), "staff-1", gomock.Any()).Return(earning.SalaryRate{
			CalculationType: earning.CalculationPerSession,
			Rate:            decimal.NewFromInt(40000),
		}, nil),
	)

	req := attendance.RecordAttendanceRequest{
		StaffID:   "staff-1",
		HalaqahID: "halaqah-1",
		Date:      "2025-03-03",
		Status:    "PRESENT",
	}
	_, err := attendanceSvc.RecordAttendance(context.Background(), req)
	require.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, apperror.ErrConfiguration)
	assert.Empty(t, store.Earnings("staff-1"))

	// The failed attempt left nothing behind, so the same session is not a duplicate.
	_, err = attendanceSvc.RecordAttendance(context.Background(), req)
	require.NoError(t, err)
	earnings := store.Earnings("staff-1")
	require.Len(t, earnings, 1)
	assertAmount(t, "40000", earnings[0].Amount)
}
