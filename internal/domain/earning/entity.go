package earning

import (
	"time"

	"github.com/shopspring/decimal"
)

type CalculationType string

const (
	CalculationPerSession CalculationType = "PER_SESSION"
	CalculationPerHour    CalculationType = "PER_HOUR"
)

func (c CalculationType) Valid() bool {
	return c == CalculationPerSession || c == CalculationPerHour
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// SalaryRate is the active pay rate for a staff role.
type SalaryRate struct {
	ID              string
	Role            string
	CalculationType CalculationType
	Rate            decimal.Decimal
	EffectiveFrom   time.Time
	// Fallback is set when no rate was configured and the system default was used.
	Fallback bool
}

// Earning is the money derived from one attendance session. Amount is fixed
// when the row is created and never recomputed.
type Earning struct {
	ID                     string
	StaffID                string
	AttendanceID           *string
	CalculationType        CalculationType
	Rate                   decimal.Decimal
	SessionDurationMinutes int
	Amount                 decimal.Decimal
	Status                 Status
	PeriodMonth            int
	PeriodYear             int
	CreatedAt              time.Time
	DecidedAt              *time.Time
	DecidedBy              *string
}

// StatusChange is the only mutation an earning row accepts.
type StatusChange struct {
	Status    Status
	DecidedAt time.Time
	DecidedBy string
}

type Filter struct {
	StaffID     *string
	Status      *Status
	PeriodMonth *int
	PeriodYear  *int
	Page        int
	Limit       int
}
