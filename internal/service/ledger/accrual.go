package ledger

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
)

const systemActor = "system"

// AccrueAttendance creates the earning of a recorded session and refreshes the
// period's draft payroll. It never fails because of missing rate configuration.
func (s *Service) AccrueAttendance(ctx context.Context, a attendance.Attendance) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.walletRepo.LockForUpdate(ctx, a.StaffID); err != nil {
			return err
		}

		if a.Status.Earns() {
			if err := s.accrueEarning(ctx, a); err != nil {
				return err
			}
		}

		month, year := a.Period()
		_, err := s.recomputePayroll(ctx, a.StaffID, month, year)
		if errors.Is(err, payroll.ErrPayrollNotDraft) {
			s.logger.WarnContext(ctx, "attendance recorded for a closed payroll period, payroll not recomputed",
				"staff_id", a.StaffID,
				"attendance_id", a.ID,
				"period_month", month,
				"period_year", year,
			)
			return nil
		}
		return err
	})
}

// ReviseAttendance applies the earning rules of an admin correction. Existing
// earnings keep their rate; a session that stops earning has its pending
// earning rejected, a session that starts earning gets a new one and a
// session whose duration changed is repriced at its snapshotted rate.
func (s *Service) ReviseAttendance(ctx context.Context, before, after attendance.Attendance, correctedBy string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.walletRepo.LockForUpdate(ctx, after.StaffID); err != nil {
			return err
		}

		month, year := after.Period()
		current, err := s.payrollRepo.GetByStaffPeriodForUpdate(ctx, after.StaffID, month, year)
		switch {
		case err == nil:
			if current.Status != payroll.PayrollStatusDraft {
				return attendance.ErrPeriodLocked
			}
		case !errors.Is(err, payroll.ErrPayrollNotFound):
			return err
		}

		switch {
		case before.Status.Earns() && !after.Status.Earns():
			live, err := s.earningRepo.GetByAttendanceID(ctx, after.ID)
			if errors.Is(err, earning.ErrEarningNotFound) {
				break
			}
			if err != nil {
				return err
			}
			if live.Status == earning.StatusApproved {
				return attendance.ErrEarningSettled
			}
			if _, err := s.earningRepo.UpdateStatus(ctx, live.ID, earning.StatusChange{
				Status:    earning.StatusRejected,
				DecidedAt: s.now(),
				DecidedBy: correctedBy,
			}); err != nil {
				return err
			}
		case !before.Status.Earns() && after.Status.Earns():
			if err := s.accrueEarning(ctx, after); err != nil {
				return err
			}
		case after.Status.Earns():
			if err := s.repriceEarning(ctx, after, correctedBy); err != nil {
				return err
			}
		}

		_, err = s.recomputePayroll(ctx, after.StaffID, month, year)
		return err
	})
}

// repriceEarning replaces the pending earning of a when its amount no longer
// matches the session duration. The replacement reuses the rate and
// calculation type of the earning it replaces. The caller must hold the
// wallet lock.
func (s *Service) repriceEarning(ctx context.Context, a attendance.Attendance, correctedBy string) error {
	live, err := s.earningRepo.GetByAttendanceID(ctx, a.ID)
	if errors.Is(err, earning.ErrEarningNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if live.SessionDurationMinutes == a.DurationMinutes() {
		return nil
	}

	replacement, err := CalculateEarning(a, earning.SalaryRate{
		CalculationType: live.CalculationType,
		Rate:            live.Rate,
	})
	if err != nil {
		return err
	}
	if replacement.Amount.Equal(live.Amount) {
		return nil
	}
	if live.Status == earning.StatusApproved {
		return attendance.ErrEarningSettled
	}

	if _, err := s.earningRepo.UpdateStatus(ctx, live.ID, earning.StatusChange{
		Status:    earning.StatusRejected,
		DecidedAt: s.now(),
		DecidedBy: correctedBy,
	}); err != nil {
		return err
	}
	_, err = s.earningRepo.Create(ctx, replacement)
	return err
}

// accrueEarning prices the session at the currently active rate. The caller
// must hold the wallet lock.
func (s *Service) accrueEarning(ctx context.Context, a attendance.Attendance) error {
	rate, err := s.resolveRate(ctx, a)
	if err != nil {
		return err
	}

	e, err := CalculateEarning(a, rate)
	if err != nil {
		return err
	}
	if s.policy.AutoApproveEarnings {
		decidedAt := s.now()
		decidedBy := systemActor
		e.Status = earning.StatusApproved
		e.DecidedAt = &decidedAt
		e.DecidedBy = &decidedBy
	}

	if _, err := s.earningRepo.Create(ctx, e); err != nil {
		return err
	}
	if e.Status == earning.StatusApproved {
		if _, err := s.settleWallet(ctx, a.StaffID); err != nil {
			return err
		}
	}
	return nil
}

// resolveRate falls back to the policy default when the role has no rate.
func (s *Service) resolveRate(ctx context.Context, a attendance.Attendance) (earning.SalaryRate, error) {
	rate, err := s.rates.ActiveRateForStaff(ctx, a.StaffID, a.Date)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperror.ErrConfiguration) {
		return earning.SalaryRate{}, err
	}

	s.logger.WarnContext(ctx, "no active salary rate configured, using default rate",
		"staff_id", a.StaffID,
		"attendance_id", a.ID,
		"default_rate", s.policy.DefaultRate.String(),
		"calculation_type", string(s.policy.DefaultCalculationType),
		"error", err,
	)
	return earning.SalaryRate{
		CalculationType: s.policy.DefaultCalculationType,
		Rate:            s.policy.DefaultRate,
		EffectiveFrom:   a.Date,
		Fallback:        true,
	}, nil
}

// recomputePayroll upserts the DRAFT payroll of a staff period from the
// attendance counts and earnings. It returns ErrPayrollNotDraft when the
// period is already approved or paid.
func (s *Service) recomputePayroll(ctx context.Context, staffID string, month, year int) (payroll.Payroll, error) {
	draft := payroll.Payroll{StaffID: staffID, PeriodMonth: month, PeriodYear: year}

	current, err := s.payrollRepo.GetByStaffPeriodForUpdate(ctx, staffID, month, year)
	switch {
	case err == nil:
		if current.Status != payroll.PayrollStatusDraft {
			return payroll.Payroll{}, payroll.ErrPayrollNotDraft
		}
		draft = current
	case !errors.Is(err, payroll.ErrPayrollNotFound):
		return payroll.Payroll{}, err
	}

	counts, err := s.attendanceRepo.CountForPeriod(ctx, staffID, month, year)
	if err != nil {
		return payroll.Payroll{}, err
	}
	base, err := s.earningRepo.SumForPeriod(ctx, staffID, month, year)
	if err != nil {
		return payroll.Payroll{}, err
	}

	return s.payrollRepo.UpsertDraft(ctx, s.policy.ComputeDraft(draft, counts, base))
}
