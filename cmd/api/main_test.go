package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/config"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
)

func TestPolicyFromConfig_LowercaseCalculationType(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("DEFAULT_CALCULATION_TYPE", "per_session")

	cfg, err := config.Load()
	require.NoError(t, err)

	policy := policyFromConfig(cfg.Payroll)
	assert.Equal(t, earning.CalculationPerSession, policy.DefaultCalculationType)
	assert.True(t, policy.DefaultCalculationType.Valid())
}
