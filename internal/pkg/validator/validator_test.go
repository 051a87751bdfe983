package validator

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidPeriod(t *testing.T) {
	assert.True(t, IsValidPeriod(3, 2025))
	assert.False(t, IsValidPeriod(0, 2025))
	assert.False(t, IsValidPeriod(13, 2025))
	assert.False(t, IsValidPeriod(1, 1999))
}

type sampleRequest struct {
	BankName string          `json:"bank_name" validate:"notblank"`
	Action   string          `json:"action" validate:"required,oneof=APPROVE REJECT"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	err := Struct(sampleRequest{BankName: "  ", Action: "DELETE", Amount: decimal.Zero})
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	fields := errs.ToMap()
	assert.Equal(t, "is required", fields["bank_name"])
	assert.Equal(t, "must be one of: APPROVE REJECT", fields["action"])
	assert.Equal(t, "must be greater than 0", fields["amount"])
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	assert.NoError(t, Struct(sampleRequest{BankName: "BSI", Action: "APPROVE", Amount: decimal.NewFromInt(10)}))
}

func TestValidationErrorsErr(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("amount", "must be positive")
	assert.EqualError(t, errs.Err(), "amount: must be positive")
}
