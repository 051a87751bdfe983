package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/money"
)

// ========== PAYROLL ==========

func (s *Service) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return p.ToResponse(), nil
}

func (s *Service) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	filter.Page, filter.Limit = pageDefaults(filter.Page, filter.Limit)

	payrolls, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		data = append(data, p.ToResponse())
	}
	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *Service) UpdatePayrollDraft(ctx context.Context, req payroll.UpdatePayrollDraftRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	patch := req.Patch()

	var saved payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payrollRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if p.Status != payroll.PayrollStatusDraft {
			return payroll.ErrPayrollNotDraft
		}

		if patch.Deductions != nil {
			if patch.Deductions.GreaterThan(p.GrossSalary) {
				return payroll.ErrNegativeNetSalary
			}
			p.Deductions = money.Round(*patch.Deductions)
		}
		if patch.Notes != nil {
			p.Notes = patch.Notes
		}
		p.NetSalary = NetSalary(p.GrossSalary, p.Deductions)

		saved, err = s.payrollRepo.UpdateDraft(ctx, p)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return saved.ToResponse(), nil
}

func (s *Service) ApprovePayroll(ctx context.Context, req payroll.ApprovePayrollRequest) (payroll.PayrollResponse, error) {
	var approved payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payrollRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if p.Status != payroll.PayrollStatusDraft {
			return payroll.ErrPayrollNotDraft
		}

		approved, err = s.payrollRepo.ApplyTransition(ctx, p.ID, payroll.Transition{
			From: payroll.PayrollStatusDraft,
			To:   payroll.PayrollStatusApproved,
			At:   s.now(),
			By:   req.ApprovedBy,
		})
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return approved.ToResponse(), nil
}

// PayPayroll posts the payroll to the finance ledger, records the salary
// payment and marks the payroll PAID in one transaction. A replay returns the
// payment created by the first call.
func (s *Service) PayPayroll(ctx context.Context, req payroll.PayPayrollRequest) (payroll.SalaryPaymentResponse, error) {
	paymentDate, err := req.ParseDate()
	if err != nil {
		return payroll.SalaryPaymentResponse{}, err
	}

	var (
		payment payroll.SalaryPayment
		paid    *payroll.Payroll
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payrollRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		existing, err := s.payrollRepo.GetSalaryPaymentByPayrollID(ctx, p.ID)
		if err == nil {
			payment = existing
			return nil
		}
		if !errors.Is(err, payroll.ErrSalaryPaymentNotFound) {
			return err
		}

		switch p.Status {
		case payroll.PayrollStatusApproved:
		case payroll.PayrollStatusPaid:
			return payroll.ErrPayrollAlreadyPaid
		default:
			return payroll.ErrPayrollNotApproved
		}

		reference := req.ReferenceNumber
		if reference == "" {
			reference = fmt.Sprintf("PAYROLL-%04d%02d-%s", p.PeriodYear, p.PeriodMonth, p.ID)
		}

		financeID, err := s.PostPayment(ctx, finance.PostPaymentRequest{
			Kind:            finance.KindPayroll,
			SourceID:        p.ID,
			Amount:          p.NetSalary,
			StaffID:         p.StaffID,
			Date:            paymentDate,
			ReferenceNumber: reference,
		})
		if err != nil {
			return err
		}

		payment, err = s.payrollRepo.CreateSalaryPayment(ctx, payroll.SalaryPayment{
			PayrollID:            p.ID,
			StaffID:              p.StaffID,
			Amount:               p.NetSalary,
			PaymentMethod:        req.PaymentMethod,
			PaymentDate:          paymentDate,
			ReferenceNumber:      reference,
			FinanceTransactionID: financeID,
			PaidBy:               req.PaidBy,
		})
		if err != nil {
			return err
		}

		updated, err := s.payrollRepo.ApplyTransition(ctx, p.ID, payroll.Transition{
			From: payroll.PayrollStatusApproved,
			To:   payroll.PayrollStatusPaid,
			At:   s.now(),
			By:   req.PaidBy,
		})
		if err != nil {
			return err
		}
		paid = &updated
		return nil
	})
	if err != nil {
		return payroll.SalaryPaymentResponse{}, err
	}

	if paid != nil {
		s.publish(ctx, notification.Event{
			Type:    notification.TypePayrollPaid,
			StaffID: paid.StaffID,
			Title:   "Salary paid",
			Message: fmt.Sprintf("Your salary for %02d/%d has been paid: %s", paid.PeriodMonth, paid.PeriodYear, money.FormatIDR(payment.Amount)),
			Data: map[string]interface{}{
				"payroll_id":             paid.ID,
				"salary_payment_id":      payment.ID,
				"amount":                 payment.Amount.String(),
				"finance_transaction_id": payment.FinanceTransactionID,
			},
		})
	}
	return payment.ToResponse(), nil
}

// ReopenPayroll always fails. Approved and paid payrolls never return to DRAFT.
func (s *Service) ReopenPayroll(ctx context.Context, id string) error {
	if _, err := s.payrollRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return payroll.ErrReopenNotSupported
}
