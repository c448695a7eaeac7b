package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", StripBearer("Bearer abc"))
	assert.Equal(t, "abc", StripBearer("bearer abc"))
	assert.Equal(t, "abc", StripBearer("abc"))
	assert.Equal(t, "Bearerabc", StripBearer("Bearerabc"))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvToken, "Bearer tok-123")
	ti, err := GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "tok-123", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestFileRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvToken, "")

	ti, err := GetToken()
	require.NoError(t, err)
	assert.Nil(t, ti, "fresh home dir means not logged in")

	require.NoError(t, SetToken("tok-456", nil))
	ti, err = GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "tok-456", ti.Token)
	assert.Equal(t, "file", ti.Source)

	require.NoError(t, DeleteToken())
	ti, err = GetToken()
	require.NoError(t, err)
	assert.Nil(t, ti)

	// Deleting twice is not an error.
	require.NoError(t, DeleteToken())
}

func TestSetTokenRejectsEmpty(t *testing.T) {
	assert.Error(t, SetToken("   ", nil))
}
