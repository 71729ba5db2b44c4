package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdminToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	now := time.Now().UTC()

	token, claims, err := NewAdminToken("owner@crochet.pk", secret, now, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := AdminClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, parsed.Role)
	assert.Equal(t, "owner@crochet.pk", parsed.Subject)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, now.Add(time.Hour), parsed.ExpiresAt.Time, time.Second)
}

func TestAdminClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")

	expired, _, err := NewAdminToken("a", secret, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = AdminClaimsFromToken(expired, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, _, err := NewAdminToken("a", secret, time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = AdminClaimsFromToken(valid, []byte("other"))
	assert.Error(t, err)

	_, err = AdminClaimsFromToken("garbage", secret)
	assert.Error(t, err)
}
