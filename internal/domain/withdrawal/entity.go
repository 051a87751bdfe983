package withdrawal

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Action is an admin decision on a withdrawal.
type Action string

const (
	ActionApprove  Action = "APPROVE"
	ActionReject   Action = "REJECT"
	ActionComplete Action = "COMPLETE"
)

// Target returns the status the action moves a withdrawal to.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionReject:
		return StatusRejected, true
	case ActionComplete:
		return StatusCompleted, true
	}
	return "", false
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted, StatusRejected},
}

// CanTransition reports whether from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Withdrawal struct {
	ID              string
	StaffID         string
	Amount          decimal.Decimal
	BankName        string
	BankAccount     string
	AccountHolder   string
	Notes           *string
	Status          Status
	RequestedAt     time.Time
	ApprovedAt      *time.Time
	ApprovedBy      *string
	CompletedAt     *time.Time
	CompletedBy     *string
	RejectedAt      *time.Time
	RejectedBy      *string
	RejectionReason *string
	UpdatedAt       time.Time
}

// Transition is the typed status change a withdrawal row accepts.
type Transition struct {
	From   Status
	To     Status
	At     time.Time
	By     string
	Reason *string
}

type WithdrawalFilter struct {
	StaffID *string
	Status  *Status
	Page    int
	Limit   int
}
