package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/models"
)

const userColumns = `id, name, email, password_hash, role, is_active, last_login, refresh_token,
	phone, bio, avatar, created_at, updated_at`

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"lastLogin": "last_login",
	"role":      "role",
}

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &lastLogin, &u.RefreshToken,
		&u.Phone, &u.Bio, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

func userConditions(f UserFilter) *conditions {
	c := &conditions{}
	if f.Role != "" {
		c.add("role = ?", f.Role)
	}
	if f.IsActive != nil {
		c.add("is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		c.add("(name ILIKE ? OR email ILIKE ?)", p, p)
	}
	if f.LastLoginFrom != nil {
		c.add("last_login >= ?", *f.LastLoginFrom)
	}
	return c
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, u.IsActive, u.LastLogin, u.RefreshToken,
		u.Phone, u.Bio, u.Avatar, u.CreatedAt, u.UpdatedAt,
	)
	return translate(err)
}

// Update writes the profile and role columns of a user. Credentials are
// changed through UpdatePassword and SetRefreshToken only.
func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			name = $2, email = $3, role = $4, is_active = $5, phone = $6, bio = $7, avatar = $8,
			updated_at = $9
		WHERE id = $1
	`
	return execAffecting(ctx, r.db, query,
		u.ID, u.Name, strings.ToLower(u.Email), u.Role, u.IsActive, u.Phone, u.Bio, u.Avatar, u.UpdatedAt,
	)
}

// Delete removes a user permanently
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, "DELETE FROM users WHERE id = $1", id)
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", strings.ToLower(email))
}

func (r *userRepo) getOne(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// EmailExists checks if another user already uses email
func (r *userRepo) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id::text <> $2)", strings.ToLower(email), excludeID,
	).Scan(&exists)
	return exists, err
}

// List returns one page of matching users and the total match count
func (r *userRepo) List(ctx context.Context, f UserFilter, opts ListOptions) ([]*models.User, int, error) {
	c := userConditions(f)

	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := c.page(opts)
	query := "SELECT " + userColumns + " FROM users" + c.where() +
		orderBy(opts.Sort, userSortColumns, "created_at DESC") + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Count returns the number of matching users
func (r *userRepo) Count(ctx context.Context, f UserFilter) (int, error) {
	c := userConditions(f)
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+c.where(), c.args...).Scan(&count)
	return count, err
}

// CountByRole returns user counts keyed by role
func (r *userRepo) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT role, COUNT(*) FROM users GROUP BY role")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Role]int)
	for rows.Next() {
		var role models.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

// RecordLogin stamps last_login and stores the newly issued refresh token
func (r *userRepo) RecordLogin(ctx context.Context, id string, at time.Time, refreshToken string) error {
	return execAffecting(ctx, r.db,
		"UPDATE users SET last_login = $2, refresh_token = $3, updated_at = $2 WHERE id = $1",
		id, at, refreshToken,
	)
}

// SetRefreshToken replaces the stored refresh token; "" revokes it
func (r *userRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	return execAffecting(ctx, r.db,
		"UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1", id, token,
	)
}

// UpdatePassword stores a new password hash and revokes the refresh token
func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return execAffecting(ctx, r.db,
		"UPDATE users SET password_hash = $2, refresh_token = '', updated_at = NOW() WHERE id = $1", id, passwordHash,
	)
}
