package payroll

import (
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollResponse struct {
	ID               string          `json:"id"`
	StaffID          string          `json:"staff_id"`
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	TotalSessions    int             `json:"total_sessions"`
	AttendedSessions int             `json:"attended_sessions"`
	LateSessions     int             `json:"late_sessions"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	AttendanceBonus  decimal.Decimal `json:"attendance_bonus"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	Deductions       decimal.Decimal `json:"deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Status           string          `json:"status"`
	Notes            *string         `json:"notes,omitempty"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	PaidAt           *string         `json:"paid_at,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (p Payroll) ToResponse() PayrollResponse {
	return PayrollResponse{
		ID:               p.ID,
		StaffID:          p.StaffID,
		PeriodMonth:      p.PeriodMonth,
		PeriodYear:       p.PeriodYear,
		TotalSessions:    p.TotalSessions,
		AttendedSessions: p.AttendedSessions,
		LateSessions:     p.LateSessions,
		BaseSalary:       p.BaseSalary,
		AttendanceBonus:  p.AttendanceBonus,
		GrossSalary:      p.GrossSalary,
		Deductions:       p.Deductions,
		NetSalary:        p.NetSalary,
		Status:           string(p.Status),
		Notes:            p.Notes,
		ApprovedAt:       formatTime(p.ApprovedAt),
		PaidAt:           formatTime(p.PaidAt),
	}
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type ApprovePayrollRequest struct {
	ID         string `json:"-"`
	ApprovedBy string `json:"-"`
}

type UpdatePayrollDraftRequest struct {
	ID         string           `json:"-"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollDraftRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Deductions == nil && r.Notes == nil {
		errs.Add("body", "at least one of deductions or notes is required")
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs.Add("deductions", "must be non-negative")
	}
	return errs.Err()
}

func (r *UpdatePayrollDraftRequest) Patch() DraftPatch {
	return DraftPatch{Deductions: r.Deductions, Notes: r.Notes}
}

type PayPayrollRequest struct {
	ID              string `json:"-"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=CASH TRANSFER"`
	PaymentDate     string `json:"payment_date" validate:"notblank"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	PaidBy          string `json:"-"`
}

// ParseDate validates the request and returns the parsed payment date.
func (r *PayPayrollRequest) ParseDate() (time.Time, error) {
	if err := validator.Struct(r); err != nil {
		return time.Time{}, err
	}
	date, ok := validator.IsValidDate(r.PaymentDate)
	if !ok {
		var errs validator.ValidationErrors
		errs.Add("payment_date", "must be in YYYY-MM-DD format")
		return time.Time{}, errs
	}
	return date, nil
}

type SalaryPaymentResponse struct {
	ID                   string          `json:"id"`
	PayrollID            string          `json:"payroll_id"`
	StaffID              string          `json:"staff_id"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentDate          string          `json:"payment_date"`
	ReferenceNumber      string          `json:"reference_number"`
	FinanceTransactionID string          `json:"finance_transaction_id"`
}

func (s SalaryPayment) ToResponse() SalaryPaymentResponse {
	return SalaryPaymentResponse{
		ID:                   s.ID,
		PayrollID:            s.PayrollID,
		StaffID:              s.StaffID,
		Amount:               s.Amount,
		PaymentMethod:        s.PaymentMethod,
		PaymentDate:          s.PaymentDate.Format("2006-01-02"),
		ReferenceNumber:      s.ReferenceNumber,
		FinanceTransactionID: s.FinanceTransactionID,
	}
}
