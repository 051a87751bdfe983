package earning

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EarningRepository defines data access methods for earning records.
type EarningRepository interface {
	Create(ctx context.Context, e Earning) (Earning, error)
	GetByID(ctx context.Context, id string) (Earning, error)
	GetByIDForUpdate(ctx context.Context, id string) (Earning, error)

	// GetByAttendanceID locks the live (non-rejected) earning of an attendance.
	GetByAttendanceID(ctx context.Context, attendanceID string) (Earning, error)
	UpdateStatus(ctx context.Context, id string, change StatusChange) (Earning, error)

	// ListPendingForPeriodForUpdate locks every PENDING earning of a staff period.
	ListPendingForPeriodForUpdate(ctx context.Context, staffID string, month, year int) ([]Earning, error)

	// SumForPeriod totals the non-rejected earnings of a staff period.
	SumForPeriod(ctx context.Context, staffID string, month, year int) (decimal.Decimal, error)

	List(ctx context.Context, filter Filter) ([]Earning, int64, error)
}

// RateProvider looks up the active salary rate for a staff member's role.
// It returns ErrRateNotConfigured when the role has no active rate.
//
//go:generate mockgen -destination=mock/rate_provider_mock.go -package=mock . RateProvider
type RateProvider interface {
	ActiveRateForStaff(ctx context.Context, staffID string, on time.Time) (SalaryRate, error)
}
