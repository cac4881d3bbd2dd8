package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)

	rate, err := cfg.GetInterestRate()
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.01)))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "ledger_test")
	t.Setenv("INTEREST_RATE", "0.05")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Contains(t, cfg.GetDBConnectionString(), "host=db.internal")
	assert.Contains(t, cfg.GetDBConnectionString(), "dbname=ledger_test")

	rate, err := cfg.GetInterestRate()
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.05)))
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadInterestRate(t *testing.T) {
	t.Setenv("INTEREST_RATE", "one percent")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("INTEREST_RATE", "-0.01")

	_, err = Load()
	assert.Error(t, err)
}
