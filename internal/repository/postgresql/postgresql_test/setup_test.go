package postgresql_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/halaqah-payroll-go/internal/service/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and creates the schema. The
// test is skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10})
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.EnsureSchema(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

// TruncateAllTables removes every row written by a previous run.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"salary_payments",
		"payrolls",
		"withdrawals",
		"wallets",
		"earnings",
		"attendances",
		"salary_rates",
		"staff",
		"finance_transactions",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedStaff creates a staff member whose role pays rate per session.
func (s *TestDatabaseSetup) SeedStaff(t *testing.T, staffID string, rate int64) {
	t.Helper()
	ctx := context.Background()
	role := "MUSYRIF-" + staffID

	_, err := s.DB.Exec(ctx, `INSERT INTO staff (id, full_name, role) VALUES ($1, $2, $3)`, staffID, "Ustadz "+staffID, role)
	require.NoError(t, err)
	_, err = s.DB.Exec(ctx, `
		INSERT INTO salary_rates (id, role, calculation_type, rate, effective_from)
		VALUES (gen_random_uuid()::text, $1, 'PER_SESSION', $2, '2024-01-01')
	`, role, rate)
	require.NoError(t, err)
}

type pipeline struct {
	db         *TestDatabaseSetup
	ledger     *ledger.Service
	attendance attendance.AttendanceService
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	setup := NewTestDatabase(t)
	db := setup.DB
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	txManager := postgresql.NewTxManager(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	svc := ledger.NewService(txManager, ledger.Repositories{
		Attendance: attendanceRepo,
		Earning:    postgresql.NewEarningRepository(db),
		Wallet:     postgresql.NewWalletRepository(db),
		Payroll:    postgresql.NewPayrollRepository(db),
		Withdrawal: postgresql.NewWithdrawalRepository(db),
		Finance:    postgresql.NewFinanceRepository(db),
	}, postgresql.NewSalaryRateProvider(db), events.NewHub(16, logger), ledger.DefaultPolicy(), logger)

	return &pipeline{
		db:         setup,
		ledger:     svc,
		attendance: attendanceService.NewAttendanceService(txManager, attendanceRepo, svc, logger),
	}
}
