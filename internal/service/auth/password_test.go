package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashAndCompare(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher()
	verifier := NewBcryptVerifier()

	password := "correct horse battery staple"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	t.Run("correct password matches", func(t *testing.T) {
		assert.NoError(t, verifier.Compare(hash, password))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		assert.Error(t, verifier.Compare(hash, "wrong password"))
	})

	t.Run("hashing is salted", func(t *testing.T) {
		second, err := hasher.Hash(password)
		require.NoError(t, err)
		assert.NotEqual(t, hash, second)
		assert.NoError(t, verifier.Compare(second, password))
	})
}
