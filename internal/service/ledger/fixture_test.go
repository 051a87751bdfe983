package ledger_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
	notificationmock "github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification/mock"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/halaqah-payroll-go/internal/service/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

const (
	roleMusyrif = "MUSYRIF"
	adminID     = "admin-1"
)

type eventLog struct {
	mu     sync.Mutex
	events []notification.Event
}

func (l *eventLog) add(e notification.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) ofType(t notification.EventType) []notification.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []notification.Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	store      *memory.Store
	ledger     *ledger.Service
	attendance attendance.AttendanceService
	events     *eventLog
}

func newFixture(t *testing.T, policy ledger.Policy, opts ...memory.Option) *fixture {
	t.Helper()
	return newFixtureWithFinance(t, policy, nil, opts...)
}

// newFixtureWithFinance swaps the finance ledger for repo when it is not nil.
func newFixtureWithFinance(t *testing.T, policy ledger.Policy, repo finance.Repository, opts ...memory.Option) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	publisher := notificationmock.NewMockPublisher(ctrl)
	events := &eventLog{}
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e notification.Event) { events.add(e) }).
		AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(opts...)
	if repo == nil {
		repo = store.Finance()
	}
	svc := ledger.NewService(store, ledger.Repositories{
		Attendance: store.Attendance(),
		Earning:    store.Earning(),
		Wallet:     store.Wallet(),
		Payroll:    store.Payroll(),
		Withdrawal: store.Withdrawal(),
		Finance:    repo,
	}, store, publisher, policy, logger)

	return &fixture{
		store:      store,
		ledger:     svc,
		attendance: attendancesvc.NewAttendanceService(store, store.Attendance(), svc, logger),
		events:     events,
	}
}

// setRate gives staffID a per-session rate.
func (f *fixture) setRate(staffID string, rate int64) {
	f.store.SetStaffRole(staffID, roleMusyrif+"-"+staffID)
	f.store.SetRate(earning.SalaryRate{
		Role:            roleMusyrif + "-" + staffID,
		CalculationType: earning.CalculationPerSession,
		Rate:            decimal.NewFromInt(rate),
		EffectiveFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

// record stores one session per day starting on the given day of March 2025.
func (f *fixture) record(t *testing.T, staffID string, status attendance.Status, firstDay, count int) []attendance.AttendanceResponse {
	t.Helper()
	var out []attendance.AttendanceResponse
	for d := firstDay; d < firstDay+count; d++ {
		resp, err := f.attendance.RecordAttendance(context.Background(), attendance.RecordAttendanceRequest{
			StaffID:   staffID,
			HalaqahID: "halaqah-1",
			Date:      fmt.Sprintf("2025-03-%02d", d),
			Status:    string(status),
		})
		require.NoError(t, err)
		out = append(out, resp)
	}
	return out
}

// fund approves every pending earning of staffID for March 2025.
func (f *fixture) fund(t *testing.T, staffID string) {
	t.Helper()
	_, err := f.ledger.ApproveEarningsForPeriod(context.Background(), earning.ApprovePeriodRequest{
		StaffID:     staffID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		DecidedBy:   adminID,
	})
	require.NoError(t, err)
}

// assertWalletInvariant checks the stored balance against the replay sum.
func (f *fixture) assertWalletInvariant(t *testing.T, staffID string) decimal.Decimal {
	t.Helper()
	ctx := context.Background()

	stored, err := f.ledger.GetBalance(ctx, staffID)
	require.NoError(t, err)
	replay, err := f.store.Wallet().ReplayBalance(ctx, staffID)
	require.NoError(t, err)

	assertAmount(t, replay.String(), stored.Balance)
	assert.False(t, stored.Balance.IsNegative(), "wallet balance must never be negative")
	return stored.Balance
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
