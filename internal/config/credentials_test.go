package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCredentialFromEnv(t *testing.T) {
	t.Setenv("TEST_METEO_USER", "alice")
	val, err := ResolveCredential("TEST_METEO_USER")
	require.NoError(t, err)
	assert.Equal(t, "alice", val)
}

func TestResolveCredentialMissing(t *testing.T) {
	_, err := ResolveCredential("NONEXISTENT_METEO_VAR")
	assert.ErrorIs(t, err, ErrMissingEnv)
}

func TestResolveCredentialEmpty(t *testing.T) {
	t.Setenv("TEST_METEO_EMPTY", "")
	_, err := ResolveCredential("TEST_METEO_EMPTY")
	assert.ErrorIs(t, err, ErrMissingEnv)
}

func TestResolveCredentialNoName(t *testing.T) {
	_, err := ResolveCredential("")
	assert.Error(t, err)
}

func TestResolveCredentials(t *testing.T) {
	t.Setenv("METEOMATICS_USERNAME", "alice")
	t.Setenv("METEOMATICS_PASSWORD", "s3cret")

	creds, err := ResolveCredentials(DefaultConfig().API)
	require.NoError(t, err)
	assert.Equal(t, "alice", creds.Username)
	assert.Equal(t, "s3cret", creds.Password)
}

func TestResolveCredentialsMissingPassword(t *testing.T) {
	t.Setenv("METEOMATICS_USERNAME", "alice")
	t.Setenv("METEOMATICS_PASSWORD", "")

	_, err := ResolveCredentials(DefaultConfig().API)
	assert.ErrorIs(t, err, ErrMissingEnv)
	assert.Contains(t, err.Error(), "password")
}
