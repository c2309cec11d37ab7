package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)
	assert.Equal(t, MinBcryptCost, h.cost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	ok, err := h.Compare(hash, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Compare("not-a-hash", "s3cret-pass")
	assert.Error(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)

	raw, err := issuer.Issue(42, "artist@example.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ArtistID)
	assert.Equal(t, "artist@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := issuer.Issue(1, "a@b.com")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("one", time.Hour).Issue(1, "a@b.com")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSecret(t *testing.T) {
	raw, hash, err := NewSecret()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, HashSecret(raw), hash)
	assert.NotEqual(t, raw, hash)

	other, _, err := NewSecret()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}
