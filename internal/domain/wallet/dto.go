package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceResponse struct {
	StaffID   string          `json:"staff_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

func (w Wallet) ToResponse() BalanceResponse {
	resp := BalanceResponse{StaffID: w.StaffID, Balance: w.Balance}
	if !w.UpdatedAt.IsZero() {
		resp.UpdatedAt = w.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

type RecalculateResponse struct {
	StaffID         string          `json:"staff_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	Balance         decimal.Decimal `json:"balance"`
	Corrected       bool            `json:"corrected"`
}

type EntryResponse struct {
	Kind       string          `json:"kind"`
	SourceID   string          `json:"source_id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt string          `json:"occurred_at"`
}

type HistoryResponse struct {
	StaffID string          `json:"staff_id"`
	Balance decimal.Decimal `json:"balance"`
	Entries []EntryResponse `json:"entries"`
}
