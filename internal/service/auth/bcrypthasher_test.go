package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{}

	t.Run("hash and compare ok", func(t *testing.T) {
		hash, err := hasher.Hash("password")
		require.NoError(t, err)
		require.NotEqual(t, "password", hash)

		require.NoError(t, hasher.Compare(hash, "password"))
	})

	t.Run("compare fails on wrong password", func(t *testing.T) {
		hash, err := hasher.Hash("password")
		require.NoError(t, err)

		require.Error(t, hasher.Compare(hash, "wrong"))
	})

	t.Run("long passwords are supported", func(t *testing.T) {
		// bcrypt alone truncates input at 72 bytes, the pre-hash must not
		long := make([]byte, 100)
		for i := range long {
			long[i] = 'a'
		}
		tail := string(long) + "x"

		hash, err := hasher.Hash(string(long))
		require.NoError(t, err)
		require.Error(t, hasher.Compare(hash, tail), "passwords that differ after 72 bytes must not match")
	})
}
