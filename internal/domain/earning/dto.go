package earning

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EarningResponse struct {
	ID                     string          `json:"id"`
	StaffID                string          `json:"staff_id"`
	AttendanceID           *string         `json:"attendance_id,omitempty"`
	CalculationType        string          `json:"calculation_type"`
	Rate                   decimal.Decimal `json:"rate"`
	SessionDurationMinutes int             `json:"session_duration_minutes"`
	Amount                 decimal.Decimal `json:"amount"`
	Status                 string          `json:"status"`
	PeriodMonth            int             `json:"period_month"`
	PeriodYear             int             `json:"period_year"`
	CreatedAt              string          `json:"created_at"`
}

func (e Earning) ToResponse() EarningResponse {
	return EarningResponse{
		ID:                     e.ID,
		StaffID:                e.StaffID,
		AttendanceID:           e.AttendanceID,
		CalculationType:        string(e.CalculationType),
		Rate:                   e.Rate,
		SessionDurationMinutes: e.SessionDurationMinutes,
		Amount:                 e.Amount,
		Status:                 string(e.Status),
		PeriodMonth:            e.PeriodMonth,
		PeriodYear:             e.PeriodYear,
		CreatedAt:              e.CreatedAt.Format(time.RFC3339),
	}
}

type DecideEarningRequest struct {
	ID        string `json:"-"`
	DecidedBy string `json:"-"`
}

type ApprovePeriodRequest struct {
	StaffID     string `json:"staff_id" validate:"notblank"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	DecidedBy   string `json:"-"`
}

func (r *ApprovePeriodRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if !validator.IsValidPeriod(r.PeriodMonth, r.PeriodYear) {
		errs.Add("period", "period_month must be 1-12 and period_year a four-digit year from 2000")
	}
	return errs.Err()
}

type ApprovePeriodResponse struct {
	Approved int             `json:"approved"`
	Amount   decimal.Decimal `json:"amount"`
}

type ListEarningResponse struct {
	Data       []EarningResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
