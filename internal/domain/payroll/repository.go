package payroll

import "context"

// PayrollRepository defines data access methods for payroll and salary payments.
type PayrollRepository interface {
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByIDForUpdate(ctx context.Context, id string) (Payroll, error)

	// GetByStaffPeriodForUpdate locks the payroll of a staff period if it exists.
	GetByStaffPeriodForUpdate(ctx context.Context, staffID string, month, year int) (Payroll, error)

	// UpsertDraft inserts the payroll or rewrites its aggregates, keyed by
	// (staff_id, period_month, period_year). Rows past DRAFT are left untouched
	// and ErrPayrollNotDraft is returned.
	UpsertDraft(ctx context.Context, p Payroll) (Payroll, error)

	// UpdateDraft persists deductions, net salary and notes of a DRAFT payroll.
	UpdateDraft(ctx context.Context, p Payroll) (Payroll, error)

	// ApplyTransition moves the payroll from t.From to t.To. It fails with
	// ErrInvalidTransition when the stored status is not t.From.
	ApplyTransition(ctx context.Context, id string, t Transition) (Payroll, error)

	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)

	CreateSalaryPayment(ctx context.Context, sp SalaryPayment) (SalaryPayment, error)
	GetSalaryPaymentByPayrollID(ctx context.Context, payrollID string) (SalaryPayment, error)
}
