package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, VerifyPassword(hash, "secret1"))
	assert.False(t, VerifyPassword(hash, "secret2"))
	assert.False(t, VerifyPassword("not-a-hash", "secret1"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
