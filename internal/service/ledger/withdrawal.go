package ledger

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/money"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
)

// ========== WITHDRAWAL ==========

// RequestWithdrawal checks bank fields, then the balance, then the minimum amount.
func (s *Service) RequestWithdrawal(ctx context.Context, req withdrawal.RequestWithdrawalRequest) (withdrawal.WithdrawalResponse, error) {
	if err := req.Validate(); err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}

	// The balance read takes no lock; completion re-checks under the wallet lock.
	var created withdrawal.Withdrawal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.walletRepo.ReplayBalance(ctx, req.StaffID)
		if err != nil {
			return err
		}

		var errs validator.ValidationErrors
		if req.Amount.GreaterThan(balance) {
			errs.Add("amount", fmt.Sprintf("exceeds the available balance of %s", money.FormatIDR(balance)))
		} else if req.Amount.LessThan(s.policy.MinimumWithdrawal) {
			errs.Add("amount", fmt.Sprintf("must be at least %s", money.FormatIDR(s.policy.MinimumWithdrawal)))
		}
		if err := errs.Err(); err != nil {
			return err
		}

		created, err = s.withdrawalRepo.Create(ctx, withdrawal.Withdrawal{
			StaffID:       req.StaffID,
			Amount:        money.Round(req.Amount),
			BankName:      req.BankName,
			BankAccount:   req.BankAccount,
			AccountHolder: req.AccountHolder,
			Notes:         req.Notes,
			Status:        withdrawal.StatusPending,
		})
		return err
	})
	if err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}
	return created.ToResponse(), nil
}

func (s *Service) ResolveWithdrawal(ctx context.Context, req withdrawal.ResolveWithdrawalRequest) (withdrawal.WithdrawalResponse, error) {
	if err := req.Validate(); err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}

	switch withdrawal.Action(req.Action) {
	case withdrawal.ActionComplete:
		return s.completeWithdrawal(ctx, req)
	case withdrawal.ActionApprove, withdrawal.ActionReject:
		return s.decideWithdrawal(ctx, req)
	default:
		return withdrawal.WithdrawalResponse{}, withdrawal.ErrUnknownAction
	}
}

// decideWithdrawal approves or rejects without moving money.
func (s *Service) decideWithdrawal(ctx context.Context, req withdrawal.ResolveWithdrawalRequest) (withdrawal.WithdrawalResponse, error) {
	target, _ := withdrawal.Action(req.Action).Target()

	var decided withdrawal.Withdrawal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := s.withdrawalRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if w.Status.Terminal() {
			return withdrawal.ErrAlreadyResolved
		}
		if !withdrawal.CanTransition(w.Status, target) {
			return withdrawal.ErrInvalidTransition
		}

		decided, err = s.withdrawalRepo.ApplyTransition(ctx, w.ID, withdrawal.Transition{
			From:   w.Status,
			To:     target,
			At:     s.now(),
			By:     req.ResolvedBy,
			Reason: req.Reason,
		})
		return err
	})
	if err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}

	event := notification.Event{
		Type:    notification.TypeWithdrawalApproved,
		StaffID: decided.StaffID,
		Title:   "Withdrawal approved",
		Message: fmt.Sprintf("Your withdrawal of %s has been approved", money.FormatIDR(decided.Amount)),
		Data: map[string]interface{}{
			"withdrawal_id": decided.ID,
			"amount":        decided.Amount.String(),
		},
	}
	if target == withdrawal.StatusRejected {
		event.Type = notification.TypeWithdrawalRejected
		event.Title = "Withdrawal rejected"
		event.Message = fmt.Sprintf("Your withdrawal of %s was rejected: %s", money.FormatIDR(decided.Amount), *req.Reason)
		event.Data["reason"] = *req.Reason
	}
	s.publish(ctx, event)

	return decided.ToResponse(), nil
}

// completeWithdrawal is the only transition that moves wallet money. The
// balance is re-checked under the wallet lock, so concurrent completions for
// one staff member serialize and the later one sees the earlier debit.
func (s *Service) completeWithdrawal(ctx context.Context, req withdrawal.ResolveWithdrawalRequest) (withdrawal.WithdrawalResponse, error) {
	// Unlocked read to find the owner; the wallet lock is always taken first.
	found, err := s.withdrawalRepo.GetByID(ctx, req.ID)
	if err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}

	var (
		completed withdrawal.Withdrawal
		replayed  bool
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.walletRepo.LockForUpdate(ctx, found.StaffID); err != nil {
			return err
		}

		w, err := s.withdrawalRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		switch w.Status {
		case withdrawal.StatusCompleted:
			completed, replayed = w, true
			return nil
		case withdrawal.StatusApproved:
		default:
			return withdrawal.ErrNotApproved
		}

		balance, err := s.walletRepo.ReplayBalance(ctx, w.StaffID)
		if err != nil {
			return err
		}
		if balance.LessThan(w.Amount) {
			return withdrawal.ErrInsufficientBalance
		}

		if _, err := s.PostPayment(ctx, finance.PostPaymentRequest{
			Kind:            finance.KindWithdrawal,
			SourceID:        w.ID,
			Amount:          w.Amount,
			StaffID:         w.StaffID,
			Date:            s.now(),
			ReferenceNumber: "WD-" + w.ID,
		}); err != nil {
			return err
		}

		completed, err = s.withdrawalRepo.ApplyTransition(ctx, w.ID, withdrawal.Transition{
			From: withdrawal.StatusApproved,
			To:   withdrawal.StatusCompleted,
			At:   s.now(),
			By:   req.ResolvedBy,
		})
		if err != nil {
			return err
		}

		_, err = s.settleWallet(ctx, w.StaffID)
		return err
	})
	if err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}

	if !replayed {
		s.publish(ctx, notification.Event{
			Type:    notification.TypeWithdrawalCompleted,
			StaffID: completed.StaffID,
			Title:   "Withdrawal completed",
			Message: fmt.Sprintf("%s has been transferred to %s %s", money.FormatIDR(completed.Amount), completed.BankName, completed.BankAccount),
			Data: map[string]interface{}{
				"withdrawal_id": completed.ID,
				"amount":        completed.Amount.String(),
			},
		})
	}
	return completed.ToResponse(), nil
}

func (s *Service) GetWithdrawal(ctx context.Context, id string) (withdrawal.WithdrawalResponse, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return withdrawal.WithdrawalResponse{}, err
	}
	return w.ToResponse(), nil
}

func (s *Service) ListWithdrawals(ctx context.Context, filter withdrawal.WithdrawalFilter) (withdrawal.ListWithdrawalResponse, error) {
	filter.Page, filter.Limit = pageDefaults(filter.Page, filter.Limit)

	withdrawals, total, err := s.withdrawalRepo.List(ctx, filter)
	if err != nil {
		return withdrawal.ListWithdrawalResponse{}, err
	}

	data := make([]withdrawal.WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		data = append(data, w.ToResponse())
	}
	return withdrawal.ListWithdrawalResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}
