package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
)

type financeRepo struct{ s *Store }

func (r *financeRepo) Insert(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.data.financeReady {
		return finance.Transaction{}, finance.ErrLedgerTableMissing
	}
	for _, existing := range r.s.data.transactions {
		if existing.SourceKind == t.SourceKind && existing.SourceID == t.SourceID {
			return finance.Transaction{}, finance.ErrPostingFailed
		}
	}
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt = r.s.now()
	r.s.data.transactions[t.ID] = t
	return t, nil
}

func (r *financeRepo) FindBySource(ctx context.Context, kind finance.PaymentKind, sourceID string) (finance.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.data.financeReady {
		return finance.Transaction{}, finance.ErrLedgerTableMissing
	}
	for _, t := range r.s.data.transactions {
		if t.SourceKind == kind && t.SourceID == sourceID {
			return t, nil
		}
	}
	return finance.Transaction{}, finance.ErrTransactionNotFound
}

func (r *financeRepo) ProvisionSchema(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.financeReady = true
	return nil
}

func (r *financeRepo) List(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.data.financeReady {
		return nil, 0, finance.ErrLedgerTableMissing
	}
	var matched []finance.Transaction
	for _, t := range r.s.data.transactions {
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.SourceKind != nil && t.SourceKind != *filter.SourceKind {
			continue
		}
		if filter.From != nil && t.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.Date.After(*filter.To) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	start, end := paginate(len(matched), filter.Page, filter.Limit)
	return matched[start:end], int64(len(matched)), nil
}
