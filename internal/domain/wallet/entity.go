package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the materialized balance of one staff member. It must always
// equal the approved earnings minus the completed withdrawals of that staff.
type Wallet struct {
	StaffID   string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

type EntryKind string

const (
	EntryEarning    EntryKind = "EARNING"
	EntryWithdrawal EntryKind = "WITHDRAWAL"
)

// Entry is one replayed movement of a wallet. Withdrawals carry a negative amount.
type Entry struct {
	Kind       EntryKind
	SourceID   string
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// Divergence is a wallet whose stored balance differs from its replay sum.
type Divergence struct {
	StaffID  string
	Stored   decimal.Decimal
	Expected decimal.Decimal
}
