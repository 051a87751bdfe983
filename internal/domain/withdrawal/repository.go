package withdrawal

import "context"

// WithdrawalRepository defines data access methods for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, w Withdrawal) (Withdrawal, error)
	GetByID(ctx context.Context, id string) (Withdrawal, error)

	// GetByIDForUpdate locks the withdrawal until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Withdrawal, error)

	// ApplyTransition writes t when the stored status still equals t.From,
	// otherwise it returns ErrInvalidTransition.
	ApplyTransition(ctx context.Context, id string, t Transition) (Withdrawal, error)

	List(ctx context.Context, filter WithdrawalFilter) ([]Withdrawal, int64, error)
}
