package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong horse"))
	assert.False(t, VerifyPassword("not-a-hash", "correct horse"))

	// Same input, different salt.
	again, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestValidateRegistration_MultibytePassword(t *testing.T) {
	// Six runes pass the minimum even though they are more than six bytes.
	assert.NoError(t, validateRegistration("a@example.com", "ééééé!"))
	// 24 three-byte runes hit the bcrypt limit exactly.
	assert.NoError(t, validateRegistration("a@example.com", strings.Repeat("€", 24)))
	assert.Error(t, validateRegistration("a@example.com", strings.Repeat("€", 25)))
}
