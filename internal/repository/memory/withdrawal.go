package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
)

type withdrawalRepo struct{ s *Store }

func (r *withdrawalRepo) Create(ctx context.Context, w withdrawal.Withdrawal) (withdrawal.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if w.ID == "" {
		w.ID = newID()
	}
	w.Status = withdrawal.StatusPending
	w.RequestedAt = r.s.now()
	w.UpdatedAt = w.RequestedAt
	r.s.data.withdrawals[w.ID] = w
	return w, nil
}

func (r *withdrawalRepo) GetByID(ctx context.Context, id string) (withdrawal.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.data.withdrawals[id]
	if !ok {
		return withdrawal.Withdrawal{}, withdrawal.ErrWithdrawalNotFound
	}
	return w, nil
}

func (r *withdrawalRepo) GetByIDForUpdate(ctx context.Context, id string) (withdrawal.Withdrawal, error) {
	return r.GetByID(ctx, id)
}

func (r *withdrawalRepo) ApplyTransition(ctx context.Context, id string, t withdrawal.Transition) (withdrawal.Withdrawal, error) {
	if !withdrawal.CanTransition(t.From, t.To) {
		return withdrawal.Withdrawal{}, withdrawal.ErrInvalidTransition
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.data.withdrawals[id]
	if !ok {
		return withdrawal.Withdrawal{}, withdrawal.ErrWithdrawalNotFound
	}
	if w.Status != t.From {
		return withdrawal.Withdrawal{}, withdrawal.ErrInvalidTransition
	}

	at, by := t.At, t.By
	w.Status = t.To
	switch t.To {
	case withdrawal.StatusApproved:
		w.ApprovedAt, w.ApprovedBy = &at, &by
	case withdrawal.StatusCompleted:
		w.CompletedAt, w.CompletedBy = &at, &by
	case withdrawal.StatusRejected:
		w.RejectedAt, w.RejectedBy = &at, &by
		w.RejectionReason = t.Reason
	}
	w.UpdatedAt = r.s.now()
	r.s.data.withdrawals[id] = w
	return w, nil
}

func (r *withdrawalRepo) List(ctx context.Context, filter withdrawal.WithdrawalFilter) ([]withdrawal.Withdrawal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []withdrawal.Withdrawal
	for _, w := range r.s.data.withdrawals {
		if filter.StaffID != nil && w.StaffID != *filter.StaffID {
			continue
		}
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		matched = append(matched, w)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
			return matched[i].RequestedAt.After(matched[j].RequestedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	start, end := paginate(len(matched), filter.Page, filter.Limit)
	return matched[start:end], int64(len(matched)), nil
}
