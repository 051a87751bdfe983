// Package ledger is the only write path for earnings, wallets, payrolls,
// withdrawals and finance postings. Every money-moving operation runs in one
// database transaction and takes the per-staff wallet lock first.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Policy holds the payroll constants an institution may tune.
type Policy struct {
	// AttendanceBonusThreshold is the attended/total ratio that earns the bonus.
	AttendanceBonusThreshold decimal.Decimal
	AttendanceBonusAmount    decimal.Decimal
	MinimumWithdrawal        decimal.Decimal

	// DefaultRate is used when the staff member's role has no active rate.
	DefaultRate            decimal.Decimal
	DefaultCalculationType earning.CalculationType

	AutoApproveEarnings bool
}

func DefaultPolicy() Policy {
	return Policy{
		AttendanceBonusThreshold: decimal.RequireFromString("0.90"),
		AttendanceBonusAmount:    decimal.NewFromInt(100000),
		MinimumWithdrawal:        decimal.NewFromInt(50000),
		DefaultRate:              decimal.NewFromInt(50000),
		DefaultCalculationType:   earning.CalculationPerSession,
	}
}

// Repositories groups the stores the ledger writes to.
type Repositories struct {
	Attendance attendance.AttendanceRepository
	Earning    earning.EarningRepository
	Wallet     wallet.WalletRepository
	Payroll    payroll.PayrollRepository
	Withdrawal withdrawal.WithdrawalRepository
	Finance    finance.Repository
}

type Service struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	earningRepo    earning.EarningRepository
	walletRepo     wallet.WalletRepository
	payrollRepo    payroll.PayrollRepository
	withdrawalRepo withdrawal.WithdrawalRepository
	financeRepo    finance.Repository
	rates          earning.RateProvider
	publisher      notification.Publisher
	policy         Policy
	logger         *slog.Logger
	now            func() time.Time

	// reconcileWorkers bounds the concurrent wallet replays of ReconcileWallets.
	reconcileWorkers int
}

var (
	_ earning.EarningService       = (*Service)(nil)
	_ wallet.WalletService         = (*Service)(nil)
	_ payroll.PayrollService       = (*Service)(nil)
	_ withdrawal.WithdrawalService = (*Service)(nil)
	_ finance.FinanceService       = (*Service)(nil)
	_ finance.Bridge               = (*Service)(nil)
	_ attendance.Accruer           = (*Service)(nil)
)

func NewService(
	tx database.Transactor,
	repos Repositories,
	rates earning.RateProvider,
	publisher notification.Publisher,
	policy Policy,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tx:               tx,
		attendanceRepo:   repos.Attendance,
		earningRepo:      repos.Earning,
		walletRepo:       repos.Wallet,
		payrollRepo:      repos.Payroll,
		withdrawalRepo:   repos.Withdrawal,
		financeRepo:      repos.Finance,
		rates:            rates,
		publisher:        publisher,
		policy:           policy,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
		reconcileWorkers: 4,
	}
}

// publish delivers events collected during a committed transaction.
func (s *Service) publish(ctx context.Context, events ...notification.Event) {
	if s.publisher == nil {
		return
	}
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.Must(uuid.NewV7()).String()
		}
		if e.OccurredAt.IsZero() {
			e.OccurredAt = s.now()
		}
		s.publisher.Publish(ctx, e)
	}
}

// settleWallet rewrites the materialized balance from the replay sum. The
// caller must hold the wallet lock.
func (s *Service) settleWallet(ctx context.Context, staffID string) (wallet.Wallet, error) {
	balance, err := s.walletRepo.ReplayBalance(ctx, staffID)
	if err != nil {
		return wallet.Wallet{}, err
	}
	if balance.IsNegative() {
		return wallet.Wallet{}, wallet.ErrNegativeBalance
	}
	return s.walletRepo.SetBalance(ctx, staffID, balance)
}

func pageDefaults(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
