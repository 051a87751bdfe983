package earning

import (
	"context"
)

type EarningService interface {
	ApproveEarning(ctx context.Context, req DecideEarningRequest) (EarningResponse, error)
	RejectEarning(ctx context.Context, req DecideEarningRequest) (EarningResponse, error)

	// ApproveEarningsForPeriod approves every pending earning of a staff period.
	ApproveEarningsForPeriod(ctx context.Context, req ApprovePeriodRequest) (ApprovePeriodResponse, error)

	ListEarnings(ctx context.Context, filter Filter) (ListEarningResponse, error)
}
