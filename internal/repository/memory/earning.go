package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/shopspring/decimal"
)

type earningRepo struct{ s *Store }

func (r *earningRepo) Create(ctx context.Context, e earning.Earning) (earning.Earning, error) {
	if e.Amount.IsNegative() {
		return earning.Earning{}, earning.ErrNegativeAmount
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt = r.s.now()
	r.s.data.earnings[e.ID] = e
	return e, nil
}

func (r *earningRepo) GetByID(ctx context.Context, id string) (earning.Earning, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.data.earnings[id]
	if !ok {
		return earning.Earning{}, earning.ErrEarningNotFound
	}
	return e, nil
}

func (r *earningRepo) GetByIDForUpdate(ctx context.Context, id string) (earning.Earning, error) {
	return r.GetByID(ctx, id)
}

func (r *earningRepo) GetByAttendanceID(ctx context.Context, attendanceID string) (earning.Earning, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.data.earnings {
		if e.AttendanceID != nil && *e.AttendanceID == attendanceID && e.Status != earning.StatusRejected {
			return e, nil
		}
	}
	return earning.Earning{}, earning.ErrEarningNotFound
}

func (r *earningRepo) UpdateStatus(ctx context.Context, id string, change earning.StatusChange) (earning.Earning, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.data.earnings[id]
	if !ok {
		return earning.Earning{}, earning.ErrEarningNotFound
	}
	if e.Status != earning.StatusPending {
		return earning.Earning{}, earning.ErrEarningNotPending
	}
	decidedAt, decidedBy := change.DecidedAt, change.DecidedBy
	e.Status = change.Status
	e.DecidedAt = &decidedAt
	e.DecidedBy = &decidedBy
	r.s.data.earnings[id] = e
	return e, nil
}

func (r *earningRepo) ListPendingForPeriodForUpdate(ctx context.Context, staffID string, month, year int) ([]earning.Earning, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []earning.Earning
	for _, e := range r.s.data.earnings {
		if e.StaffID == staffID && e.PeriodMonth == month && e.PeriodYear == year && e.Status == earning.StatusPending {
			out = append(out, e)
		}
	}
	sortEarnings(out)
	return out, nil
}

func (r *earningRepo) SumForPeriod(ctx context.Context, staffID string, month, year int) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	total := decimal.Zero
	for _, e := range r.s.data.earnings {
		if e.StaffID == staffID && e.PeriodMonth == month && e.PeriodYear == year && e.Status != earning.StatusRejected {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r *earningRepo) List(ctx context.Context, filter earning.Filter) ([]earning.Earning, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []earning.Earning
	for _, e := range r.s.data.earnings {
		if filter.StaffID != nil && e.StaffID != *filter.StaffID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.PeriodMonth != nil && e.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && e.PeriodYear != *filter.PeriodYear {
			continue
		}
		matched = append(matched, e)
	}
	sortEarnings(matched)
	start, end := paginate(len(matched), filter.Page, filter.Limit)
	return matched[start:end], int64(len(matched)), nil
}

func sortEarnings(earnings []earning.Earning) {
	sort.Slice(earnings, func(i, j int) bool {
		if !earnings[i].CreatedAt.Equal(earnings[j].CreatedAt) {
			return earnings[i].CreatedAt.Before(earnings[j].CreatedAt)
		}
		return earnings[i].ID < earnings[j].ID
	})
}
