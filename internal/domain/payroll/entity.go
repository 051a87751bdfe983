package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum. Transitions are linear: DRAFT -> APPROVED -> PAID.
type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "DRAFT"
	PayrollStatusApproved PayrollStatus = "APPROVED"
	PayrollStatusPaid     PayrollStatus = "PAID"
)

var statusRank = map[PayrollStatus]int{
	PayrollStatusDraft:    0,
	PayrollStatusApproved: 1,
	PayrollStatusPaid:     2,
}

// CanTransition reports whether from -> to is a legal single step.
func CanTransition(from, to PayrollStatus) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	return tr == fr+1
}

// Payroll is the monthly rollup of one staff member's sessions.
// Unique per (StaffID, PeriodMonth, PeriodYear).
type Payroll struct {
	ID               string
	StaffID          string
	PeriodMonth      int
	PeriodYear       int
	TotalSessions    int
	AttendedSessions int
	LateSessions     int
	BaseSalary       decimal.Decimal
	AttendanceBonus  decimal.Decimal
	GrossSalary      decimal.Decimal
	Deductions       decimal.Decimal
	NetSalary        decimal.Decimal
	Status           PayrollStatus
	Notes            *string
	ApprovedAt       *time.Time
	ApprovedBy       *string
	PaidAt           *time.Time
	PaidBy           *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Transition is the typed status change a payroll row accepts.
type Transition struct {
	From PayrollStatus
	To   PayrollStatus
	At   time.Time
	By   string
}

// DraftPatch lists the fields an admin may edit while the payroll is a draft.
type DraftPatch struct {
	Deductions *decimal.Decimal
	Notes      *string
}

// SalaryPayment records the payout of one payroll. Its existence is the
// guard against paying the same payroll twice.
type SalaryPayment struct {
	ID                   string
	PayrollID            string
	StaffID              string
	Amount               decimal.Decimal
	PaymentMethod        string
	PaymentDate          time.Time
	ReferenceNumber      string
	FinanceTransactionID string
	PaidBy               string
	CreatedAt            time.Time
}

type PayrollFilter struct {
	StaffID     *string
	PeriodMonth *int
	PeriodYear  *int
	Status      *PayrollStatus
	Page        int
	Limit       int
}
