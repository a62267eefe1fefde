package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, InvoiceStrategySequence, cfg.InvoiceStrategy)
	assert.False(t, cfg.AllowNegativeStock)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("INVOICE_STRATEGY", " Timestamp ")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("CORS_ORIGINS", "https://pos.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, InvoiceStrategyTimestamp, cfg.InvoiceStrategy)
	assert.True(t, cfg.AllowNegativeStock)
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.AllowedOrigins())
}

func TestLoad_RejectsUnknownInvoiceStrategy(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("INVOICE_STRATEGY", "timestamps")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "INVOICE_STRATEGY")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
