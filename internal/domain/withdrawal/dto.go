package withdrawal

import (
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RequestWithdrawalRequest struct {
	StaffID       string          `json:"staff_id" validate:"notblank"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	BankName      string          `json:"bank_name" validate:"notblank"`
	BankAccount   string          `json:"bank_account" validate:"notblank"`
	AccountHolder string          `json:"account_holder" validate:"notblank"`
	Notes         *string         `json:"notes,omitempty"`
}

// Validate checks the request fields. Balance and minimum checks need the
// wallet and policy, so they run in the service.
func (r *RequestWithdrawalRequest) Validate() error {
	return validator.Struct(r)
}

type ResolveWithdrawalRequest struct {
	ID         string  `json:"-"`
	Action     string  `json:"action" validate:"required,oneof=APPROVE REJECT COMPLETE"`
	Reason     *string `json:"reason,omitempty"`
	ResolvedBy string  `json:"-"`
}

func (r *ResolveWithdrawalRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if Action(r.Action) == ActionReject && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		return ErrRejectionReason
	}
	return nil
}

type WithdrawalResponse struct {
	ID              string          `json:"id"`
	StaffID         string          `json:"staff_id"`
	Amount          decimal.Decimal `json:"amount"`
	BankName        string          `json:"bank_name"`
	BankAccount     string          `json:"bank_account"`
	AccountHolder   string          `json:"account_holder"`
	Notes           *string         `json:"notes,omitempty"`
	Status          string          `json:"status"`
	RequestedAt     string          `json:"requested_at"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	CompletedAt     *string         `json:"completed_at,omitempty"`
	RejectedAt      *string         `json:"rejected_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (w Withdrawal) ToResponse() WithdrawalResponse {
	return WithdrawalResponse{
		ID:              w.ID,
		StaffID:         w.StaffID,
		Amount:          w.Amount,
		BankName:        w.BankName,
		BankAccount:     w.BankAccount,
		AccountHolder:   w.AccountHolder,
		Notes:           w.Notes,
		Status:          string(w.Status),
		RequestedAt:     w.RequestedAt.Format(time.RFC3339),
		ApprovedAt:      formatTime(w.ApprovedAt),
		CompletedAt:     formatTime(w.CompletedAt),
		RejectedAt:      formatTime(w.RejectedAt),
		RejectionReason: w.RejectionReason,
	}
}

type ListWithdrawalResponse struct {
	Data       []WithdrawalResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}
