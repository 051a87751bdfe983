package payroll

import "context"

type PayrollService interface {
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)

	UpdatePayrollDraft(ctx context.Context, req UpdatePayrollDraftRequest) (PayrollResponse, error)
	ApprovePayroll(ctx context.Context, req ApprovePayrollRequest) (PayrollResponse, error)

	// PayPayroll pays an APPROVED payroll exactly once. Replaying the call
	// returns the existing payment.
	PayPayroll(ctx context.Context, req PayPayrollRequest) (SalaryPaymentResponse, error)

	// ReopenPayroll always fails: reopening is not part of the lifecycle.
	ReopenPayroll(ctx context.Context, id string) error
}
