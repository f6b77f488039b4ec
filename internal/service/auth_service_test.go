package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/models"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	res, err := f.svc.Auth.Login(ctx, " Editor@Example.com ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, editor.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	stored := f.store.Users.Users[editor.ID]
	require.NotNil(t, stored.LastLogin)
	assert.True(t, stored.LastLogin.Equal(testNow))
	assert.Equal(t, auth.HashToken(res.RefreshToken), stored.RefreshToken, "only the digest of the refresh token is stored")

	_, err = f.svc.Auth.Login(ctx, "editor@example.com", "wrong-password")
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = f.svc.Auth.Login(ctx, "nobody@example.com", testPassword)
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = f.svc.Auth.Login(ctx, "not-an-email", "")
	requireKind(t, err, apperr.KindInvalidInput)

	require.NoError(t, f.svc.User.Deactivate(ctx, admin, otherEditor.ID))
	_, err = f.svc.Auth.Login(ctx, "writer@example.com", testPassword)
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	res, err := f.svc.Auth.Login(ctx, "editor@example.com", testPassword)
	require.NoError(t, err)

	p, err := f.svc.Auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, editor.ID, p.ID)
	assert.Equal(t, models.RoleEditorial, p.Role)

	// role changes apply before the token expires
	_, err = f.svc.User.Update(ctx, superAdmin, editor.ID, &models.UserInput{Role: ptr(models.RoleAdmin)})
	require.NoError(t, err)
	p, err = f.svc.Auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)

	_, err = f.svc.Auth.Authenticate(ctx, res.RefreshToken)
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = f.svc.Auth.Authenticate(ctx, "garbage")
	requireKind(t, err, apperr.KindUnauthenticated)

	require.NoError(t, f.svc.User.Deactivate(ctx, superAdmin, editor.ID))
	_, err = f.svc.Auth.Authenticate(ctx, res.AccessToken)
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	res, err := f.svc.Auth.Login(ctx, "editor@example.com", testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Auth.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)
	assert.Equal(t, auth.HashToken(pair.RefreshToken), f.store.Users.Users[editor.ID].RefreshToken)

	_, err = f.svc.Auth.Refresh(ctx, res.RefreshToken)
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = f.svc.Auth.Refresh(ctx, res.AccessToken)
	requireKind(t, err, apperr.KindUnauthenticated)

	_, err = f.svc.Auth.Refresh(ctx, "  ")
	requireKind(t, err, apperr.KindInvalidInput)

	require.NoError(t, f.svc.Auth.Logout(ctx, editor))
	_, err = f.svc.Auth.Refresh(ctx, pair.RefreshToken)
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	res, err := f.svc.Auth.Login(ctx, "editor@example.com", testPassword)
	require.NoError(t, err)

	requireKind(t, f.svc.Auth.ChangePassword(ctx, editor, "wrong-one", "new-secret"), apperr.KindInvalidInput)
	requireKind(t, f.svc.Auth.ChangePassword(ctx, editor, testPassword, "123"), apperr.KindInvalidInput)
	requireKind(t, f.svc.Auth.ChangePassword(ctx, nil, testPassword, "new-secret"), apperr.KindUnauthenticated)

	require.NoError(t, f.svc.Auth.ChangePassword(ctx, editor, testPassword, "new-secret"))

	_, err = f.svc.Auth.Login(ctx, "editor@example.com", testPassword)
	requireKind(t, err, apperr.KindUnauthenticated)
	_, err = f.svc.Auth.Login(ctx, "editor@example.com", "new-secret")
	require.NoError(t, err)

	// changing the password revoked the refresh token issued before it
	_, err = f.svc.Auth.Refresh(ctx, res.RefreshToken)
	requireKind(t, err, apperr.KindUnauthenticated)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	u, err := f.svc.Auth.UpdateProfile(ctx, editor, models.ProfileUpdate{"name": " Desk ", "bio": "Covers politics"})
	require.NoError(t, err)
	assert.Equal(t, "Desk", u.Name)
	assert.Equal(t, "Covers politics", f.store.Users.Users[editor.ID].Bio)

	_, err = f.svc.Auth.UpdateProfile(ctx, editor, models.ProfileUpdate{"email": "new@example.com"})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.Auth.UpdateProfile(ctx, admin, models.ProfileUpdate{"role": "super_admin"})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.Auth.UpdateProfile(ctx, superAdmin, models.ProfileUpdate{"email": "writer@example.com"})
	requireKind(t, err, apperr.KindConflict)

	u, err = f.svc.Auth.UpdateProfile(ctx, superAdmin, models.ProfileUpdate{"email": "Chief@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "chief@example.com", u.Email)

	_, err = f.svc.Auth.UpdateProfile(ctx, editor, models.ProfileUpdate{"avatar": "not a url"})
	requireKind(t, err, apperr.KindInvalidInput)
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	u, err := f.svc.Auth.Me(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)

	_, err = f.svc.Auth.Me(ctx, nil)
	requireKind(t, err, apperr.KindUnauthenticated)
}
