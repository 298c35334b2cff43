package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Retail TC")
	cfg.Reconcile.LookbackMonths = 36

	path := filepath.Join(t.TempDir(), File)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Portfolio.Name, got.Portfolio.Name)
	assert.Equal(t, cfg.Portfolio.Currency, got.Portfolio.Currency)
	assert.Equal(t, cfg.Extracts.ChunkSize, got.Extracts.ChunkSize)
	assert.Equal(t, cfg.Store.DSNEnv, got.Store.DSNEnv)
	assert.Equal(t, 36, got.Reconcile.LookbackMonths)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Retail TC")

	assert.Equal(t, "Retail TC", cfg.Portfolio.Name)
	assert.Equal(t, "COP", cfg.Portfolio.Currency)
	assert.Equal(t, 500000, cfg.Extracts.ChunkSize)
	assert.Equal(t, "TCBOARD_DATABASE_URL", cfg.Store.DSNEnv)
	assert.Equal(t, 120, cfg.Reconcile.LookbackMonths)
}

func TestDSN(t *testing.T) {
	s := StoreConfig{DSNEnv: "TCBOARD_TEST_DSN"}

	_, err := s.DSN()
	require.Error(t, err)

	t.Setenv("TCBOARD_TEST_DSN", "postgres://localhost/tcboard")
	dsn, err := s.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/tcboard", dsn)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}
