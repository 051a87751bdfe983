package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/config"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/halaqah-payroll-go/internal/service/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: httplog.SchemaECS.Concise(cfg.App.Env != "production").ReplaceAttr,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	txManager := postgresql.NewTxManager(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	repos := ledger.Repositories{
		Attendance: attendanceRepo,
		Earning:    postgresql.NewEarningRepository(db),
		Wallet:     postgresql.NewWalletRepository(db),
		Payroll:    postgresql.NewPayrollRepository(db),
		Withdrawal: postgresql.NewWithdrawalRepository(db),
		Finance:    postgresql.NewFinanceRepository(db),
	}

	hub := events.NewHub(64, logger)
	go hub.Forward(ctx, func(e notification.Event) {
		logger.Info("payment event", "type", e.Type, "staff_id", e.StaffID, "event_id", e.ID)
	})

	ledgerSvc := ledger.NewService(txManager, repos, postgresql.NewSalaryRateProvider(db), hub, policyFromConfig(cfg.Payroll), logger)
	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, ledgerSvc, logger)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{AllowedOrigins: cfg.App.AllowedOrigins, Logger: logger},
		JWTService,
		appHTTP.Handlers{
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Wallet:       appHTTP.NewWalletHandler(ledgerSvc),
			Earning:      appHTTP.NewEarningHandler(ledgerSvc),
			Payroll:      appHTTP.NewPayrollHandler(ledgerSvc),
			Withdrawal:   appHTTP.NewWithdrawalHandler(ledgerSvc),
			Finance:      appHTTP.NewFinanceHandler(ledgerSvc),
			Notification: appHTTP.NewNotificationHandler(hub),
		},
	)

	scheduler := cron.NewScheduler(logger)
	cron.NewWalletJobs(ledgerSvc, logger).RegisterJobs(scheduler, cfg.Reconciliation.Interval)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func policyFromConfig(c config.PayrollConfig) ledger.Policy {
	return ledger.Policy{
		AttendanceBonusThreshold: c.AttendanceBonusThreshold,
		AttendanceBonusAmount:    c.AttendanceBonusAmount,
		MinimumWithdrawal:        c.MinimumWithdrawal,
		DefaultRate:              c.DefaultSessionRate,
		DefaultCalculationType:   earning.CalculationType(c.DefaultCalculationType),
		AutoApproveEarnings:      c.AutoApproveEarnings,
	}
}
