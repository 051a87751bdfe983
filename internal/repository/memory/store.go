// Package memory keeps every ledger table in process memory. It honours the
// same contracts as the postgresql repositories: transactions are serialized
// and a failed transaction restores the state it started from.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/google/uuid"
)

type txKey struct{}

type tables struct {
	attendances  map[string]attendance.Attendance
	earnings     map[string]earning.Earning
	wallets      map[string]wallet.Wallet
	payrolls     map[string]payroll.Payroll
	payments     map[string]payroll.SalaryPayment // keyed by payroll id
	withdrawals  map[string]withdrawal.Withdrawal
	transactions map[string]finance.Transaction
	financeReady bool
}

func newTables() tables {
	return tables{
		attendances:  map[string]attendance.Attendance{},
		earnings:     map[string]earning.Earning{},
		wallets:      map[string]wallet.Wallet{},
		payrolls:     map[string]payroll.Payroll{},
		payments:     map[string]payroll.SalaryPayment{},
		withdrawals:  map[string]withdrawal.Withdrawal{},
		transactions: map[string]finance.Transaction{},
		financeReady: true,
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.attendances {
		c.attendances[k] = v
	}
	for k, v := range t.earnings {
		c.earnings[k] = v
	}
	for k, v := range t.wallets {
		c.wallets[k] = v
	}
	for k, v := range t.payrolls {
		c.payrolls[k] = v
	}
	for k, v := range t.payments {
		c.payments[k] = v
	}
	for k, v := range t.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range t.transactions {
		c.transactions[k] = v
	}
	c.financeReady = t.financeReady
	return c
}

type Store struct {
	txMu sync.Mutex // held for the whole of a transaction
	mu   sync.Mutex // guards data and rates
	data tables

	staffRoles map[string]string
	rates      map[string]earning.SalaryRate
	now        func() time.Time
}

type Option func(*Store)

// WithoutFinanceTable starts the store with the finance ledger unprovisioned.
func WithoutFinanceTable() Option {
	return func(s *Store) { s.data.financeReady = false }
}

// WithClock overrides the time used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		data:       newTables(),
		staffRoles: map[string]string{},
		rates:      map[string]earning.SalaryRate{},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithinTransaction implements database.Transactor. Nested calls join the
// running transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// SetStaffRole assigns the role whose salary rate applies to staffID.
func (s *Store) SetStaffRole(staffID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staffRoles[staffID] = role
}

// SetRate configures the active rate of a role.
func (s *Store) SetRate(rate earning.SalaryRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rate.ID == "" {
		rate.ID = newID()
	}
	s.rates[rate.Role] = rate
}

// ActiveRateForStaff implements earning.RateProvider.
func (s *Store) ActiveRateForStaff(ctx context.Context, staffID string, on time.Time) (earning.SalaryRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.staffRoles[staffID]
	if !ok {
		return earning.SalaryRate{}, earning.ErrRateNotConfigured
	}
	rate, ok := s.rates[role]
	if !ok || rate.EffectiveFrom.After(on) {
		return earning.SalaryRate{}, earning.ErrRateNotConfigured
	}
	return rate, nil
}

func (s *Store) Attendance() attendance.AttendanceRepository { return &attendanceRepo{s} }
func (s *Store) Earning() earning.EarningRepository { return &earningRepo{s} }
func (s *Store) Wallet() wallet.WalletRepository { return &walletRepo{s} }
func (s *Store) Payroll() payroll.PayrollRepository { return &payrollRepo{s} }
func (s *Store) Withdrawal() withdrawal.WithdrawalRepository { return &withdrawalRepo{s} }
func (s *Store) Finance() finance.Repository { return &financeRepo{s} }

// FinanceTransactions returns every posted ledger row.
func (s *Store) FinanceTransactions() []finance.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]finance.Transaction, 0, len(s.data.transactions))
	for _, t := range s.data.transactions {
		out = append(out, t)
	}
	return out
}

// SalaryPayments returns every recorded salary payment.
func (s *Store) SalaryPayments() []payroll.SalaryPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]payroll.SalaryPayment, 0, len(s.data.payments))
	for _, sp := range s.data.payments {
		out = append(out, sp)
	}
	return out
}

// Earnings returns the earnings of staffID.
func (s *Store) Earnings(staffID string) []earning.Earning {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []earning.Earning
	for _, e := range s.data.earnings {
		if e.StaffID == staffID {
			out = append(out, e)
		}
	}
	return out
}

// Withdrawals returns the withdrawals of staffID.
func (s *Store) Withdrawals(staffID string) []withdrawal.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []withdrawal.Withdrawal
	for _, w := range s.data.withdrawals {
		if w.StaffID == staffID {
			out = append(out, w)
		}
	}
	return out
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func paginate(total, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
