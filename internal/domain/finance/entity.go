package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// PaymentKind names the source of a posted payment.
type PaymentKind string

const (
	KindPayroll    PaymentKind = "PAYROLL"
	KindWithdrawal PaymentKind = "WITHDRAWAL"
)

// Category returns the ledger category a payment kind posts under.
func (k PaymentKind) Category() string {
	switch k {
	case KindPayroll:
		return "SALARY"
	case KindWithdrawal:
		return "WALLET_WITHDRAWAL"
	}
	return "OTHER"
}

// Transaction is an append-only row of the general finance ledger.
type Transaction struct {
	ID          string
	Type        TransactionType
	Category    string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Reference   string
	SourceKind  PaymentKind
	SourceID    string
	Metadata    map[string]string
	CreatedAt   time.Time
}

// PostPaymentRequest is a paid payroll or completed withdrawal to mirror into the ledger.
type PostPaymentRequest struct {
	Kind            PaymentKind
	SourceID        string
	Amount          decimal.Decimal
	StaffID         string
	Date            time.Time
	ReferenceNumber string
}

type TransactionFilter struct {
	Type       *TransactionType
	SourceKind *PaymentKind
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}
