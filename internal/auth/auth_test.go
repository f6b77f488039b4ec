package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/models"
)

func newManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{
		JWTSecret:       "access-secret",
		RefreshSecret:   "refresh-secret",
		Issuer:          "news-portal-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestIssueAndParse(t *testing.T) {
	m := newManager()
	user := &models.User{ID: "3f1c1b1e-0000-4000-8000-000000000001", Role: models.RoleEditorial}

	pair, err := m.IssuePair(user, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleEditorial, claims.Role)

	claims, err = m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestParse_RejectsWrongKind(t *testing.T) {
	m := newManager()
	pair, err := m.IssuePair(&models.User{ID: "u1", Role: models.RoleAdmin}, time.Now())
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	m := newManager()
	pair, err := m.IssuePair(&models.User{ID: "u1", Role: models.RoleAdmin}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_WithClock(t *testing.T) {
	issued := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := issued.Add(time.Minute)
	m := newManager().WithClock(func() time.Time { return clock })

	pair, err := m.IssuePair(&models.User{ID: "u1", Role: models.RoleAdmin}, issued)
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.AccessToken)
	require.NoError(t, err, "expiry is judged by the injected clock, not the wall clock")

	clock = issued.Add(time.Hour)
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
}

func TestParse_Garbage(t *testing.T) {
	m := newManager()
	_, err := m.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager(config.AuthConfig{JWTSecret: "other", Issuer: "news-portal-api", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Minute})
	pair, err := other.IssuePair(&models.User{ID: "u1"}, time.Now())
	require.NoError(t, err)
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "token signed with another secret")
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}
