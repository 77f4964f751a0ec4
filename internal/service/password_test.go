package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherUsesDefaultCost(t *testing.T) {
	h := NewPasswordHasher(0)
	assert.Equal(t, DefaultBcryptCost, h.cost)

	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("s3cret-pass")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasherVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, h.Verify("s3cret-pass", hash))
	assert.False(t, h.Verify("wrong-pass", hash))
}
