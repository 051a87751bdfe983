package http

import (
	"log/slog"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Handlers struct {
	Attendance   AttendanceHandler
	Wallet       WalletHandler
	Earning      EarningHandler
	Payroll      PayrollHandler
	Withdrawal   WithdrawalHandler
	Finance      FinanceHandler
	Notification NotificationHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Get("/notifications/stream", h.Notification.Stream)

		r.Route("/attendances", func(r chi.Router) {
			r.Post("/", h.Attendance.Record)
			r.Get("/{id}", h.Attendance.Get)
			r.With(middleware.AdminOnly).Patch("/{id}", h.Attendance.Correct)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.With(middleware.StaffOnly).Get("/me", h.Wallet.GetMine)
			r.Get("/{staffId}", h.Wallet.Get)
			r.Get("/{staffId}/history", h.Wallet.History)
			r.With(middleware.AdminOnly).Post("/{staffId}/recalculate", h.Wallet.Recalculate)
		})

		r.Route("/earnings", func(r chi.Router) {
			r.Get("/", h.Earning.List)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/approve-period", h.Earning.ApprovePeriod)
				r.Post("/{id}/approve", h.Earning.Approve)
				r.Post("/{id}/reject", h.Earning.Reject)
			})
		})

		r.Route("/payrolls", func(r chi.Router) {
			r.Get("/", h.Payroll.List)
			r.Get("/{id}", h.Payroll.Get)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Patch("/{id}", h.Payroll.UpdateDraft)
				r.Post("/{id}/approve", h.Payroll.Approve)
				r.Post("/{id}/pay", h.Payroll.Pay)
				r.Post("/{id}/reopen", h.Payroll.Reopen)
			})
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.With(middleware.StaffOnly).Post("/", h.Withdrawal.Request)
			r.Get("/", h.Withdrawal.List)
			r.Get("/{id}", h.Withdrawal.Get)
			r.With(middleware.AdminOnly).Post("/{id}/resolve", h.Withdrawal.Resolve)
		})

		r.With(middleware.AdminOnly).Get("/finance/transactions", h.Finance.ListTransactions)
	})
	return r
}
