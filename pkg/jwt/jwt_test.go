package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("s3cr3t", 15, "admin", "morvic-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cr3t", token)
	require.NoError(t, err)
	assert.Equal(t, int64(15), userID)
	assert.Equal(t, "admin", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("s3cr3t", 15, "admin", "morvic-api", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("s3cr3t", 15, "admin", "morvic-api", -1)
	require.NoError(t, err)

	_, _, err = Parse("s3cr3t", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", 1, "admin", "x", 5)
	assert.Error(t, err)
}
