package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	first, err := GenerateSecret()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, decoded, secretEntropyBytes)

	second, err := GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// A generated secret must be directly usable for signing.
	_, err = NewTokenManager(first)
	require.NoError(t, err)
}
