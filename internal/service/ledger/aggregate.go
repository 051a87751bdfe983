package ledger

import (
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// AttendanceRate is attended/total, or zero when no session was held.
func AttendanceRate(counts attendance.PeriodCounts) decimal.Decimal {
	if counts.TotalSessions <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(counts.AttendedSessions)).
		Div(decimal.NewFromInt(int64(counts.TotalSessions)))
}

// AttendanceBonus pays the flat bonus when the attendance rate reaches the threshold.
func (p Policy) AttendanceBonus(counts attendance.PeriodCounts) decimal.Decimal {
	if counts.TotalSessions <= 0 {
		return decimal.Zero
	}
	// attended >= threshold * total, kept free of division rounding.
	attended := decimal.NewFromInt(int64(counts.AttendedSessions))
	required := p.AttendanceBonusThreshold.Mul(decimal.NewFromInt(int64(counts.TotalSessions)))
	if attended.GreaterThanOrEqual(required) {
		return p.AttendanceBonusAmount
	}
	return decimal.Zero
}

// ComputeDraft fills the aggregate fields of a DRAFT payroll. baseSalary is
// the sum of the period's non-rejected earnings. Net salary never drops below zero.
func (p Policy) ComputeDraft(draft payroll.Payroll, counts attendance.PeriodCounts, baseSalary decimal.Decimal) payroll.Payroll {
	draft.TotalSessions = counts.TotalSessions
	draft.AttendedSessions = counts.AttendedSessions
	draft.LateSessions = counts.LateSessions
	draft.BaseSalary = money.Round(baseSalary)
	draft.AttendanceBonus = money.Round(p.AttendanceBonus(counts))
	draft.GrossSalary = draft.BaseSalary.Add(draft.AttendanceBonus)
	draft.NetSalary = NetSalary(draft.GrossSalary, draft.Deductions)
	draft.Status = payroll.PayrollStatusDraft
	return draft
}

func NetSalary(gross, deductions decimal.Decimal) decimal.Decimal {
	net := gross.Sub(deductions)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
