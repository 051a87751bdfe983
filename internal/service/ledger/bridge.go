package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/money"
)

// ========== FINANCE LEDGER ==========

// PostPayment mirrors a payment into the finance ledger at most once per
// source. A missing ledger table is provisioned and the insert retried once.
func (s *Service) PostPayment(ctx context.Context, req finance.PostPaymentRequest) (string, error) {
	if req.SourceID == "" || req.Amount.IsNegative() {
		return "", finance.ErrInvalidPayment
	}

	var postedID string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existingID, err := s.findPosted(ctx, req)
		if err != nil {
			return err
		}
		if existingID != "" {
			postedID = existingID
			return nil
		}

		entry := finance.Transaction{
			Type:        finance.TypeExpense,
			Category:    req.Kind.Category(),
			Description: describePayment(req),
			Amount:      money.Round(req.Amount),
			Date:        req.Date,
			Reference:   req.ReferenceNumber,
			SourceKind:  req.Kind,
			SourceID:    req.SourceID,
			Metadata: map[string]string{
				"staff_id": req.StaffID,
				"kind":     string(req.Kind),
			},
		}

		posted, err := s.financeRepo.Insert(ctx, entry)
		if errors.Is(err, finance.ErrLedgerTableMissing) {
			s.logger.WarnContext(ctx, "finance ledger table missing, provisioning before retry",
				"kind", string(req.Kind),
				"source_id", req.SourceID,
			)
			if provErr := s.financeRepo.ProvisionSchema(ctx); provErr != nil {
				return fmt.Errorf("%w: %v", finance.ErrPostingFailed, provErr)
			}
			posted, err = s.financeRepo.Insert(ctx, entry)
		}
		if err != nil {
			s.logger.ErrorContext(ctx, "finance ledger posting failed",
				"kind", string(req.Kind),
				"source_id", req.SourceID,
				"error", err,
			)
			return fmt.Errorf("%w: %v", finance.ErrPostingFailed, err)
		}

		postedID = posted.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return postedID, nil
}

// findPosted returns the ledger id already recorded for the payment source, or "".
func (s *Service) findPosted(ctx context.Context, req finance.PostPaymentRequest) (string, error) {
	if req.Kind == finance.KindPayroll {
		sp, err := s.payrollRepo.GetSalaryPaymentByPayrollID(ctx, req.SourceID)
		if err == nil {
			return sp.FinanceTransactionID, nil
		}
		if !errors.Is(err, payroll.ErrSalaryPaymentNotFound) {
			return "", err
		}
	}

	posted, err := s.financeRepo.FindBySource(ctx, req.Kind, req.SourceID)
	switch {
	case err == nil:
		return posted.ID, nil
	case errors.Is(err, finance.ErrTransactionNotFound), errors.Is(err, finance.ErrLedgerTableMissing):
		return "", nil
	default:
		return "", err
	}
}

func describePayment(req finance.PostPaymentRequest) string {
	switch req.Kind {
	case finance.KindPayroll:
		return fmt.Sprintf("Salary payment %s for staff %s", money.FormatIDR(req.Amount), req.StaffID)
	case finance.KindWithdrawal:
		return fmt.Sprintf("Wallet withdrawal %s for staff %s", money.FormatIDR(req.Amount), req.StaffID)
	}
	return fmt.Sprintf("Payment %s", money.FormatIDR(req.Amount))
}

func (s *Service) ListTransactions(ctx context.Context, filter finance.TransactionFilter) (finance.ListTransactionResponse, error) {
	filter.Page, filter.Limit = pageDefaults(filter.Page, filter.Limit)

	transactions, total, err := s.financeRepo.List(ctx, filter)
	if err != nil {
		if errors.Is(err, finance.ErrLedgerTableMissing) {
			return finance.ListTransactionResponse{Data: []finance.TransactionResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
		}
		return finance.ListTransactionResponse{}, err
	}

	data := make([]finance.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		data = append(data, t.ToResponse())
	}
	return finance.ListTransactionResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}
