package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	// A digest that is not bcrypt output must verify false, not panic.
	assert.False(t, VerifyPassword("not-a-bcrypt-digest", "whatever"))
	assert.False(t, VerifyPassword("", "whatever"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	h1, err := HashPassword("same-password", 4)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", 4)
	require.NoError(t, err)

	// Each hash embeds its own salt, so digests differ but both verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "same-password"))
	assert.True(t, VerifyPassword(h2, "same-password"))
}
