package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

func TestAttendanceBonus(t *testing.T) {
	policy := ledger.DefaultPolicy()

	tests := []struct {
		name     string
		counts   attendance.PeriodCounts
		wantRate string
		want     string
	}{
		{name: "above threshold", counts: attendance.PeriodCounts{TotalSessions: 22, AttendedSessions: 20}, wantRate: "0.9091", want: "100000"},
		{name: "exactly at threshold", counts: attendance.PeriodCounts{TotalSessions: 10, AttendedSessions: 9}, wantRate: "0.9", want: "100000"},
		{name: "below threshold", counts: attendance.PeriodCounts{TotalSessions: 10, AttendedSessions: 8}, wantRate: "0.8", want: "0"},
		{name: "no sessions", counts: attendance.PeriodCounts{}, wantRate: "0", want: "0"},
		{name: "full attendance with lates", counts: attendance.PeriodCounts{TotalSessions: 4, AttendedSessions: 4, LateSessions: 4}, wantRate: "1", want: "100000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, tt.wantRate, ledger.AttendanceRate(tt.counts).Round(4))
			assertAmount(t, tt.want, policy.AttendanceBonus(tt.counts))
		})
	}
}

func TestComputeDraft(t *testing.T) {
	policy := ledger.DefaultPolicy()
	counts := attendance.PeriodCounts{TotalSessions: 22, AttendedSessions: 20, LateSessions: 3}

	t.Run("keeps deductions and identity", func(t *testing.T) {
		current := payroll.Payroll{
			ID:          "payroll-1",
			StaffID:     "staff-1",
			PeriodMonth: 3,
			PeriodYear:  2025,
			Deductions:  decimal.NewFromInt(25000),
			Status:      payroll.PayrollStatusDraft,
		}
		got := policy.ComputeDraft(current, counts, decimal.NewFromInt(1000000))

		assert.Equal(t, "payroll-1", got.ID)
		assert.Equal(t, 22, got.TotalSessions)
		assert.Equal(t, 20, got.AttendedSessions)
		assert.Equal(t, 3, got.LateSessions)
		assertAmount(t, "1000000", got.BaseSalary)
		assertAmount(t, "100000", got.AttendanceBonus)
		assertAmount(t, "1100000", got.GrossSalary)
		assertAmount(t, "1075000", got.NetSalary)
		assert.Equal(t, payroll.PayrollStatusDraft, got.Status)
	})

	t.Run("net salary is never negative", func(t *testing.T) {
		current := payroll.Payroll{Deductions: decimal.NewFromInt(500000)}
		got := policy.ComputeDraft(current, attendance.PeriodCounts{TotalSessions: 2, AttendedSessions: 1}, decimal.NewFromInt(50000))

		assertAmount(t, "50000", got.GrossSalary)
		assertAmount(t, "0", got.NetSalary)
	})
}

func TestNetSalary(t *testing.T) {
	assertAmount(t, "75000", ledger.NetSalary(decimal.NewFromInt(100000), decimal.NewFromInt(25000)))
	assertAmount(t, "0", ledger.NetSalary(decimal.NewFromInt(100000), decimal.NewFromInt(100000)))
	assertAmount(t, "0", ledger.NetSalary(decimal.NewFromInt(10), decimal.NewFromInt(11)))
}
