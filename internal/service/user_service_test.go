package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/policy"
)

const userMissing = "00000000-0000-4000-8000-0000000000ff"

func seedUsers(t *testing.T, f *fixture) {
	t.Helper()
	f.addUser(t, superAdmin, "root@example.com")
	f.addUser(t, admin, "admin@example.com")
	f.addUser(t, editor, "editor@example.com")
	f.addUser(t, otherEditor, "writer@example.com")
}

func userInput(email string, role models.Role) *models.UserInput {
	return &models.UserInput{
		Name:     ptr("New Person"),
		Email:    ptr(email),
		Password: ptr("hunter22"),
		Role:     ptr(role),
	}
}

func TestUserService_List(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	res, err := f.svc.User.List(ctx, models.UserQuery{Role: "editorial", Sort: "email"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "editor@example.com", res.Items[0].Email)

	res, err = f.svc.User.List(ctx, models.UserQuery{Search: "ROOT"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, superAdmin.ID, res.Items[0].ID)

	_, err = f.svc.User.List(ctx, models.UserQuery{Role: "owner"})
	requireKind(t, err, apperr.KindInvalidInput)
}

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor *policy.Principal
		in    *models.UserInput
		want  apperr.Kind
	}{
		{"editorial cannot create users", editor, userInput("a@example.com", models.RoleEditorial), apperr.KindForbidden},
		{"admin cannot create admins", admin, userInput("b@example.com", models.RoleAdmin), apperr.KindForbidden},
		{"duplicate email", admin, userInput("EDITOR@example.com", models.RoleEditorial), apperr.KindConflict},
		{"short password", admin, &models.UserInput{Name: ptr("Shorty"), Email: ptr("c@example.com"), Password: ptr("123")}, apperr.KindInvalidInput},
		{"anonymous", nil, userInput("d@example.com", models.RoleEditorial), apperr.KindUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.User.Create(ctx, tt.actor, tt.in)
			requireKind(t, err, tt.want)
		})
	}

	u, err := f.svc.User.Create(ctx, admin, &models.UserInput{Name: ptr(" Reporter "), Email: ptr("Reporter@Example.com"), Password: ptr("hunter22")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditorial, u.Role)
	assert.Equal(t, "reporter@example.com", u.Email)
	assert.Equal(t, "Reporter", u.Name)
	assert.True(t, u.IsActive)
	assert.True(t, auth.CheckPassword(f.store.Users.Users[u.ID].PasswordHash, "hunter22"))

	promoted, err := f.svc.User.Create(ctx, superAdmin, userInput("chief@example.com", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
}

func TestUserService_Update(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()

	_, err := f.svc.User.Update(ctx, admin, editor.ID, &models.UserInput{Role: ptr(models.RoleAdmin)})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.User.Update(ctx, admin, superAdmin.ID, &models.UserInput{Bio: ptr("hi")})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.User.Update(ctx, admin, admin.ID, &models.UserInput{IsActive: ptr(false)})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.svc.User.Update(ctx, superAdmin, superAdmin.ID, &models.UserInput{IsActive: ptr(false)})
	requireKind(t, err, apperr.KindInvalidInput)

	_, err = f.svc.User.Update(ctx, admin, editor.ID, &models.UserInput{Email: ptr("writer@example.com")})
	requireKind(t, err, apperr.KindConflict)

	before := f.store.Users.Users[editor.ID].PasswordHash
	u, err := f.svc.User.Update(ctx, admin, editor.ID, &models.UserInput{Name: ptr("Desk Editor"), Password: ptr("ignored-password")})
	require.NoError(t, err)
	assert.Equal(t, "Desk Editor", u.Name)
	assert.Equal(t, before, f.store.Users.Users[editor.ID].PasswordHash, "passwords are not changed through user updates")

	promoted, err := f.svc.User.Update(ctx, superAdmin, editor.ID, &models.UserInput{Role: ptr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	_, err = f.svc.User.Update(ctx, admin, userMissing, &models.UserInput{})
	requireKind(t, err, apperr.KindNotFound)
}

func TestUserService_Deactivate(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()
	require.NoError(t, f.store.Users.SetRefreshToken(ctx, editor.ID, "stored-hash"))

	requireKind(t, f.svc.User.Deactivate(ctx, admin, admin.ID), apperr.KindInvalidInput)
	requireKind(t, f.svc.User.Deactivate(ctx, editor, otherEditor.ID), apperr.KindForbidden)
	requireKind(t, f.svc.User.Deactivate(ctx, admin, superAdmin.ID), apperr.KindForbidden)

	require.NoError(t, f.svc.User.Deactivate(ctx, admin, editor.ID))
	stored := f.store.Users.Users[editor.ID]
	assert.False(t, stored.IsActive)
	assert.Empty(t, stored.RefreshToken)
}

func TestUserService_DeletePermanently(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	f.addCategory(t, catNews, "News", nil)
	f.addArticle(t, artDraft, "By Editor", editor.ID, catNews)
	ctx := context.Background()

	requireKind(t, f.svc.User.DeletePermanently(ctx, admin, otherEditor.ID), apperr.KindForbidden)
	requireKind(t, f.svc.User.DeletePermanently(ctx, superAdmin, superAdmin.ID), apperr.KindInvalidInput)
	requireKind(t, f.svc.User.DeletePermanently(ctx, superAdmin, editor.ID), apperr.KindConflict)
	requireKind(t, f.svc.User.DeletePermanently(ctx, superAdmin, userMissing), apperr.KindNotFound)

	require.NoError(t, f.svc.User.DeletePermanently(ctx, superAdmin, otherEditor.ID))
	assert.NotContains(t, f.store.Users.Users, otherEditor.ID)
}

func TestUserService_Stats(t *testing.T) {
	f := newFixture(t)
	seedUsers(t, f)
	ctx := context.Background()
	require.NoError(t, f.svc.User.Deactivate(ctx, admin, otherEditor.ID))

	stats, err := f.svc.User.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 3, stats.ActiveUsers)
	assert.Equal(t, 1, stats.InactiveUsers)
	assert.Equal(t, map[models.Role]int{
		models.RoleSuperAdmin: 1,
		models.RoleAdmin:      1,
		models.RoleEditorial:  2,
	}, stats.ByRole)
}
