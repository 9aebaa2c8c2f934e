package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL_TEST", "sqlite::memory:")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "sqlite::memory:", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "finternet", cfg.PaymentProvider)
	assert.Equal(t, "USD", cfg.PaymentCurrency)
	assert.Equal(t, "approve", cfg.VerifierFallback)
	assert.Equal(t, 50.0, cfg.ReimburseFallback)
	assert.Equal(t, 30*time.Minute, cfg.VerdictTTL)
	assert.Equal(t, 20*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, "milestone-evidence", cfg.EvidenceBucket)
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL_PROD", "postgres://prod")
	t.Setenv("PAYMENT_PROVIDER", "Stripe")
	t.Setenv("PAYMENT_CURRENCY", "eur")
	t.Setenv("VERIFIER_FALLBACK", "REJECT")
	t.Setenv("VERDICT_TTL_MINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://prod", cfg.DatabaseURL)
	assert.Equal(t, "stripe", cfg.PaymentProvider)
	assert.Equal(t, "EUR", cfg.PaymentCurrency)
	assert.Equal(t, "reject", cfg.VerifierFallback)
	assert.Equal(t, 5*time.Minute, cfg.VerdictTTL)
}
