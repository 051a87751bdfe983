package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/service/ledger"
)

func session(status attendance.Status, minutes int) attendance.Attendance {
	a := attendance.Attendance{
		ID:        "att-1",
		StaffID:   "staff-1",
		HalaqahID: "halaqah-1",
		Date:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
	if minutes > 0 {
		in := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
		out := in.Add(time.Duration(minutes) * time.Minute)
		a.CheckInTime, a.CheckOutTime = &in, &out
	}
	return a
}

func TestCalculateEarning(t *testing.T) {
	perSession := earning.SalaryRate{CalculationType: earning.CalculationPerSession, Rate: decimal.NewFromInt(50000)}
	perHour := earning.SalaryRate{CalculationType: earning.CalculationPerHour, Rate: decimal.NewFromInt(30000)}

	tests := []struct {
		name       string
		attendance attendance.Attendance
		rate       earning.SalaryRate
		want       string
		wantErr    error
	}{
		{name: "per session ignores duration", attendance: session(attendance.StatusPresent, 0), rate: perSession, want: "50000"},
		{name: "late still earns", attendance: session(attendance.StatusLate, 45), rate: perSession, want: "50000"},
		{name: "per hour full hours", attendance: session(attendance.StatusPresent, 120), rate: perHour, want: "60000"},
		{name: "per hour partial hour", attendance: session(attendance.StatusPresent, 90), rate: perHour, want: "45000"},
		{name: "per hour odd minutes", attendance: session(attendance.StatusPresent, 7), rate: perHour, want: "3500"},
		{
			name:       "per hour repeating fraction",
			attendance: session(attendance.StatusPresent, 1),
			rate:       earning.SalaryRate{CalculationType: earning.CalculationPerHour, Rate: decimal.NewFromInt(100)},
			want:       "1.67",
		},
		{name: "per hour without check-out", attendance: session(attendance.StatusPresent, 0), rate: perHour, want: "0"},
		{name: "absent does not earn", attendance: session(attendance.StatusAbsent, 0), rate: perSession, wantErr: earning.ErrUnearnedAttendance},
		{name: "permission does not earn", attendance: session(attendance.StatusPermission, 0), rate: perSession, wantErr: earning.ErrUnearnedAttendance},
		{
			name:       "negative rate",
			attendance: session(attendance.StatusPresent, 0),
			rate:       earning.SalaryRate{CalculationType: earning.CalculationPerSession, Rate: decimal.NewFromInt(-1)},
			wantErr:    earning.ErrNegativeAmount,
		},
		{
			name:       "unknown calculation type",
			attendance: session(attendance.StatusPresent, 0),
			rate:       earning.SalaryRate{CalculationType: "PER_DAY", Rate: decimal.NewFromInt(1)},
			wantErr:    earning.ErrInvalidCalculation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.CalculateEarning(tt.attendance, tt.rate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assertAmount(t, tt.want, got.Amount)
			assert.Equal(t, earning.StatusPending, got.Status)
			assert.Equal(t, 3, got.PeriodMonth)
			assert.Equal(t, 2025, got.PeriodYear)
			require.NotNil(t, got.AttendanceID)
			assert.Equal(t, "att-1", *got.AttendanceID)
		})
	}
}
