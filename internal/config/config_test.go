package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("APOR_RATE", "")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8070", s.Port)
	assert.Equal(t, 0.0, s.APORRate)
	assert.Empty(t, s.Redis.Addr)
	assert.False(t, s.Gemini.Enabled())
	assert.Equal(t, int32(10), s.Postgres.MaxConns)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("APOR_RATE", "0.0682")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("PG_DB", "loans")
	t.Setenv("IMPORT_DIR", "/srv/imports")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", s.Port)
	assert.InDelta(t, 0.0682, s.APORRate, 1e-12)
	assert.Equal(t, 3, s.Redis.DB)
	assert.True(t, s.Gemini.Enabled())
	assert.Contains(t, s.Postgres.DSN(), "dbname=loans")
	assert.Equal(t, "/srv/imports", s.ImportDir)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Setenv("APOR_RATE", "high")
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APOR_RATE")
	assert.Contains(t, err.Error(), "REDIS_DB")
}
