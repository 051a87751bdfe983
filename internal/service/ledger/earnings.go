package ledger

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ========== EARNINGS ==========

func (s *Service) ApproveEarning(ctx context.Context, req earning.DecideEarningRequest) (earning.EarningResponse, error) {
	return s.decideEarning(ctx, req, earning.StatusApproved)
}

func (s *Service) RejectEarning(ctx context.Context, req earning.DecideEarningRequest) (earning.EarningResponse, error) {
	return s.decideEarning(ctx, req, earning.StatusRejected)
}

func (s *Service) decideEarning(ctx context.Context, req earning.DecideEarningRequest, status earning.Status) (earning.EarningResponse, error) {
	// Unlocked read to find the owner; the wallet lock is always taken first.
	found, err := s.earningRepo.GetByID(ctx, req.ID)
	if err != nil {
		return earning.EarningResponse{}, err
	}

	var decided earning.Earning
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.walletRepo.LockForUpdate(ctx, found.StaffID); err != nil {
			return err
		}

		e, err := s.earningRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if e.Status != earning.StatusPending {
			return earning.ErrEarningNotPending
		}

		decided, err = s.earningRepo.UpdateStatus(ctx, e.ID, earning.StatusChange{
			Status:    status,
			DecidedAt: s.now(),
			DecidedBy: req.DecidedBy,
		})
		if err != nil {
			return err
		}

		if status == earning.StatusApproved {
			_, err = s.settleWallet(ctx, e.StaffID)
			return err
		}

		// A rejected earning no longer counts toward the draft base salary.
		_, err = s.recomputePayroll(ctx, e.StaffID, e.PeriodMonth, e.PeriodYear)
		if errors.Is(err, payroll.ErrPayrollNotDraft) {
			s.logger.WarnContext(ctx, "earning rejected for a closed payroll period, payroll not recomputed",
				"earning_id", e.ID,
				"staff_id", e.StaffID,
			)
			return nil
		}
		return err
	})
	if err != nil {
		return earning.EarningResponse{}, err
	}
	return decided.ToResponse(), nil
}

func (s *Service) ApproveEarningsForPeriod(ctx context.Context, req earning.ApprovePeriodRequest) (earning.ApprovePeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return earning.ApprovePeriodResponse{}, err
	}

	resp := earning.ApprovePeriodResponse{Amount: decimal.Zero}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.walletRepo.LockForUpdate(ctx, req.StaffID); err != nil {
			return err
		}

		pending, err := s.earningRepo.ListPendingForPeriodForUpdate(ctx, req.StaffID, req.PeriodMonth, req.PeriodYear)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		decidedAt := s.now()
		for _, e := range pending {
			if _, err := s.earningRepo.UpdateStatus(ctx, e.ID, earning.StatusChange{
				Status:    earning.StatusApproved,
				DecidedAt: decidedAt,
				DecidedBy: req.DecidedBy,
			}); err != nil {
				return err
			}
			resp.Approved++
			resp.Amount = resp.Amount.Add(e.Amount)
		}

		_, err = s.settleWallet(ctx, req.StaffID)
		return err
	})
	if err != nil {
		return earning.ApprovePeriodResponse{}, err
	}
	return resp, nil
}

func (s *Service) ListEarnings(ctx context.Context, filter earning.Filter) (earning.ListEarningResponse, error) {
	filter.Page, filter.Limit = pageDefaults(filter.Page, filter.Limit)

	earnings, total, err := s.earningRepo.List(ctx, filter)
	if err != nil {
		return earning.ListEarningResponse{}, err
	}

	data := make([]earning.EarningResponse, 0, len(earnings))
	for _, e := range earnings {
		data = append(data, e.ToResponse())
	}
	return earning.ListEarningResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}
