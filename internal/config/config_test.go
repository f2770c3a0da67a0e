package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "dGVzdCBzaWduaW5nIHNlY3JldCBrZXk="

func TestConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", testSigningKey)

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ShortURLBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tinyapp_session", cfg.SessionCookieName)
	assert.Equal(t, testSigningKey, cfg.SessionSigningSecretKey)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", testSigningKey)
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("BASE_URL", "http://envonly.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_COOKIE_NAME", "other_session")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "http://envonly.com", cfg.ShortURLBase)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "other_session", cfg.SessionCookieName)
}

func TestConfigRequiresSigningKey(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "")

	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err, "the signing key must be supplied externally")
}

func TestConfigRejectsNonBase64SigningKey(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "not/base64url!")

	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err)
}

func TestConfigRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", testSigningKey)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err)
}
