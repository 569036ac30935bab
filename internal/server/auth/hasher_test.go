package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("abc123!")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123!", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.True(t, h.Verify(hash, "abc123!"))
	assert.False(t, h.Verify(hash, "abc123?"))
	assert.False(t, h.Verify("not-a-hash", "abc123!"))
	assert.False(t, h.VerifyDummy("abc123!"))
	assert.False(t, h.VerifyDummy(dummyPassword))
}

func TestNewBcryptHasher_BadCost(t *testing.T) {
	t.Parallel()

	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
