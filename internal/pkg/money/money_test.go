package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp 1.100.000", FormatIDR(decimal.NewFromInt(1100000)))
	assert.Equal(t, "Rp 50.000", FormatIDR(decimal.NewFromInt(50000)))
	assert.Equal(t, "Rp 0", FormatIDR(decimal.Zero))
}

func TestRound(t *testing.T) {
	assert.True(t, decimal.RequireFromString("41666.67").Equal(Round(decimal.RequireFromString("41666.6666"))))
}
