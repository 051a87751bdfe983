package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Date        string            `json:"date"`
	Reference   string            `json:"reference"`
	SourceKind  string            `json:"source_kind"`
	SourceID    string            `json:"source_id"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (t Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date.Format("2006-01-02"),
		Reference:   t.Reference,
		SourceKind:  string(t.SourceKind),
		SourceID:    t.SourceID,
		Metadata:    t.Metadata,
	}
}

type ListTransactionResponse struct {
	Data       []TransactionResponse `json:"data"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}

// ParseFilterDate parses an optional YYYY-MM-DD query value.
func ParseFilterDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, false
	}
	return &t, true
}
