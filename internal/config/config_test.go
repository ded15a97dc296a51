package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"Admin@Example.com", " second@example.com "}}

	assert.True(t, cfg.IsAdminEmail("admin@example.com"))
	assert.True(t, cfg.IsAdminEmail("ADMIN@EXAMPLE.COM"))
	assert.True(t, cfg.IsAdminEmail("second@example.com"))
	assert.False(t, cfg.IsAdminEmail("user@example.com"))
	assert.False(t, cfg.IsAdminEmail(""))
}

func TestDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, time.Hour, cfg.JWTAccessTokenDuration)
	assert.NotEmpty(t, cfg.AdminEmails)
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", "a,b,c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsSlice("TEST_SLICE", nil))
	assert.Equal(t, []string{"fallback"}, getEnvAsSlice("TEST_SLICE_MISSING", []string{"fallback"}))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", "1h"))
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION_MISSING", "1h"))
}
