package ledger

import (
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// CalculateEarning derives the PENDING earning of one attendance session.
// Per-session rates pay the flat rate, hourly rates pay rate * minutes / 60.
func CalculateEarning(a attendance.Attendance, rate earning.SalaryRate) (earning.Earning, error) {
	if !a.Status.Earns() {
		return earning.Earning{}, earning.ErrUnearnedAttendance
	}
	if rate.Rate.IsNegative() {
		return earning.Earning{}, earning.ErrNegativeAmount
	}

	minutes := a.DurationMinutes()
	var amount decimal.Decimal
	switch rate.CalculationType {
	case earning.CalculationPerSession:
		amount = rate.Rate
	case earning.CalculationPerHour:
		amount = rate.Rate.Mul(decimal.NewFromInt(int64(minutes))).Div(minutesPerHour)
	default:
		return earning.Earning{}, earning.ErrInvalidCalculation
	}

	month, year := a.Period()
	attendanceID := a.ID
	return earning.Earning{
		StaffID:                a.StaffID,
		AttendanceID:           &attendanceID,
		CalculationType:        rate.CalculationType,
		Rate:                   rate.Rate,
		SessionDurationMinutes: minutes,
		Amount:                 money.Round(amount),
		Status:                 earning.StatusPending,
		PeriodMonth:            month,
		PeriodYear:             year,
	}, nil
}
