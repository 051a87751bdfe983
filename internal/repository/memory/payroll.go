package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
)

type payrollRepo struct{ s *Store }

func (r *payrollRepo) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (r *payrollRepo) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.GetByID(ctx, id)
}

func (r *payrollRepo) GetByStaffPeriodForUpdate(ctx context.Context, staffID string, month, year int) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.findPeriod(staffID, month, year)
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (r *payrollRepo) findPeriod(staffID string, month, year int) (payroll.Payroll, bool) {
	for _, p := range r.s.data.payrolls {
		if p.StaffID == staffID && p.PeriodMonth == month && p.PeriodYear == year {
			return p, true
		}
	}
	return payroll.Payroll{}, false
}

func (r *payrollRepo) UpsertDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	existing, ok := r.findPeriod(p.StaffID, p.PeriodMonth, p.PeriodYear)
	if ok {
		if existing.Status != payroll.PayrollStatusDraft {
			return payroll.Payroll{}, payroll.ErrPayrollNotDraft
		}
		existing.TotalSessions = p.TotalSessions
		existing.AttendedSessions = p.AttendedSessions
		existing.LateSessions = p.LateSessions
		existing.BaseSalary = p.BaseSalary
		existing.AttendanceBonus = p.AttendanceBonus
		existing.GrossSalary = p.GrossSalary
		existing.Deductions = p.Deductions
		existing.NetSalary = p.NetSalary
		existing.UpdatedAt = now
		r.s.data.payrolls[existing.ID] = existing
		return existing, nil
	}

	if p.ID == "" {
		p.ID = newID()
	}
	p.Status = payroll.PayrollStatusDraft
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.data.payrolls[p.ID] = p
	return p, nil
}

func (r *payrollRepo) UpdateDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.data.payrolls[p.ID]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if existing.Status != payroll.PayrollStatusDraft {
		return payroll.Payroll{}, payroll.ErrPayrollNotDraft
	}
	existing.Deductions = p.Deductions
	existing.NetSalary = p.NetSalary
	existing.Notes = p.Notes
	existing.UpdatedAt = r.s.now()
	r.s.data.payrolls[p.ID] = existing
	return existing, nil
}

func (r *payrollRepo) ApplyTransition(ctx context.Context, id string, t payroll.Transition) (payroll.Payroll, error) {
	if !payroll.CanTransition(t.From, t.To) {
		return payroll.Payroll{}, payroll.ErrInvalidTransition
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if p.Status != t.From {
		return payroll.Payroll{}, payroll.ErrInvalidTransition
	}
	at, by := t.At, t.By
	p.Status = t.To
	if t.To == payroll.PayrollStatusApproved {
		p.ApprovedAt, p.ApprovedBy = &at, &by
	} else {
		p.PaidAt, p.PaidBy = &at, &by
	}
	p.UpdatedAt = r.s.now()
	r.s.data.payrolls[id] = p
	return p, nil
}

func (r *payrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []payroll.Payroll
	for _, p := range r.s.data.payrolls {
		if filter.StaffID != nil && p.StaffID != *filter.StaffID {
			continue
		}
		if filter.PeriodMonth != nil && p.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && p.PeriodYear != *filter.PeriodYear {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.PeriodYear != b.PeriodYear {
			return a.PeriodYear > b.PeriodYear
		}
		if a.PeriodMonth != b.PeriodMonth {
			return a.PeriodMonth > b.PeriodMonth
		}
		return a.StaffID < b.StaffID
	})
	start, end := paginate(len(matched), filter.Page, filter.Limit)
	return matched[start:end], int64(len(matched)), nil
}

func (r *payrollRepo) CreateSalaryPayment(ctx context.Context, sp payroll.SalaryPayment) (payroll.SalaryPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.data.payments[sp.PayrollID]; exists {
		return payroll.SalaryPayment{}, payroll.ErrSalaryPaymentExists
	}
	if sp.ID == "" {
		sp.ID = newID()
	}
	sp.CreatedAt = r.s.now()
	r.s.data.payments[sp.PayrollID] = sp
	return sp, nil
}

func (r *payrollRepo) GetSalaryPaymentByPayrollID(ctx context.Context, payrollID string) (payroll.SalaryPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sp, ok := r.s.data.payments[payrollID]
	if !ok {
		return payroll.SalaryPayment{}, payroll.ErrSalaryPaymentNotFound
	}
	return sp, nil
}
