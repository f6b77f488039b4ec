package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/pagination"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/repository"
)

var userSorts = map[string]bool{"createdAt": true, "name": true, "email": true, "lastLogin": true, "role": true}

// userService implements UserService
type userService struct {
	deps
	log zerolog.Logger
}

func newUserService(d deps, log zerolog.Logger) *userService {
	return &userService{
		deps: d,
		log:  log.With().Str("service", "user").Logger(),
	}
}

func (s *userService) List(ctx context.Context, q models.UserQuery) (*ListResult[*models.User], error) {
	if q.Role != "" && !models.ValidRoles[models.Role(q.Role)] {
		return nil, invalid("role", "invalid role")
	}

	params := s.page(q.Page, q.Limit)
	filter := repository.UserFilter{
		Role:     models.Role(q.Role),
		IsActive: q.IsActive,
		Search:   strings.TrimSpace(q.Search),
	}
	items, total, err := s.repos.User.List(ctx, filter, repository.ListOptions{
		Sort:   pagination.ParseSort(q.Sort, "-createdAt", userSorts),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, translate(err, "users")
	}
	return &ListResult[*models.User]{Items: items, Pagination: params.NewPage(total)}, nil
}

func (s *userService) find(ctx context.Context, id string) (*models.User, error) {
	if err := s.validator.ValidateID("id", id); err != nil {
		return nil, translate(err, "user")
	}
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.find(ctx, id)
}

// authorizeAdmin lets admins manage editorial users. Touching an admin
// account, or granting an admin role, needs capability as well.
func authorizeAdmin(p *policy.Principal, capability policy.Capability, roles ...models.Role) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !p.IsAdmin() {
		return apperr.Forbidden("only administrators can manage users")
	}
	for _, role := range roles {
		if role.IsAdmin() && !policy.Can(p, capability) {
			return apperr.Forbidden("only super admins can manage administrator accounts")
		}
	}
	return nil
}

func (s *userService) emailTaken(ctx context.Context, email, excludeID string) error {
	exists, err := s.repos.User.EmailExists(ctx, email, excludeID)
	if err != nil {
		return translate(err, "user")
	}
	if exists {
		return apperr.Conflict("a user with this email already exists")
	}
	return nil
}

func (s *userService) Create(ctx context.Context, p *policy.Principal, in *models.UserInput) (*models.User, error) {
	role := models.RoleEditorial
	if in.Role != nil {
		role = *in.Role
	}
	if err := authorizeAdmin(p, policy.CreateUser, role); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateUser(in, true); err != nil {
		return nil, translate(err, "user")
	}

	email := strings.ToLower(strings.TrimSpace(*in.Email))
	if err := s.emailTaken(ctx, email, ""); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(*in.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, apperr.Upstream("failed to hash password", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(*in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyUserInput(user, in)

	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Str("created_by", p.ID).Msg("User created")
	return user, nil
}

// applyUserInput copies the optional profile fields. Name, email, role and
// password are handled by the callers.
func applyUserInput(u *models.User, in *models.UserInput) {
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Avatar != nil {
		u.Avatar = strings.TrimSpace(*in.Avatar)
	}
}

func (s *userService) Update(ctx context.Context, p *policy.Principal, id string, in *models.UserInput) (*models.User, error) {
	if err := authorizeAdmin(p, policy.EditUser); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	roles := []models.Role{user.Role}
	if in.Role != nil {
		roles = append(roles, *in.Role)
	}
	if err := authorizeAdmin(p, policy.EditUser, roles...); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateUser(in, false); err != nil {
		return nil, translate(err, "user")
	}
	if user.ID == p.ID && in.IsActive != nil && !*in.IsActive {
		return nil, invalid("isActive", "you cannot deactivate your own account")
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if err := s.emailTaken(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	applyUserInput(user, in)
	user.UpdatedAt = s.now()

	if err := s.repos.User.Update(ctx, user); err != nil {
		return nil, translate(err, "user")
	}

	s.log.Info().Str("user_id", user.ID).Str("updated_by", p.ID).Msg("User updated")
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, p *policy.Principal, id string) error {
	if err := authorizeAdmin(p, policy.EditUser); err != nil {
		return err
	}
	if id == p.ID {
		return invalid("id", "you cannot deactivate your own account")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeAdmin(p, policy.EditUser, user.Role); err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = s.now()
	if err := s.repos.User.Update(ctx, user); err != nil {
		return translate(err, "user")
	}
	if err := s.repos.User.SetRefreshToken(ctx, user.ID, ""); err != nil {
		return translate(err, "user")
	}

	s.log.Info().Str("user_id", user.ID).Str("deactivated_by", p.ID).Msg("User deactivated")
	return nil
}

func (s *userService) DeletePermanently(ctx context.Context, p *policy.Principal, id string) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !policy.Can(p, policy.DeleteUser) {
		return apperr.Forbidden("only super admins can permanently delete users")
	}
	if id == p.ID {
		return invalid("id", "you cannot delete your own account")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	authored, err := s.repos.Article.Count(ctx, repository.ArticleFilter{AuthorID: user.ID})
	if err != nil {
		return translate(err, "articles")
	}
	if authored > 0 {
		return apperr.Conflict("cannot delete a user who has authored articles; deactivate the account instead")
	}

	if err := s.repos.User.Delete(ctx, user.ID); err != nil {
		return translate(err, "user")
	}

	s.log.Warn().Str("user_id", user.ID).Str("deleted_by", p.ID).Msg("User permanently deleted")
	return nil
}

func (s *userService) Stats(ctx context.Context) (*models.UserStats, error) {
	var (
		total, active int
		byRole        map[models.Role]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repos.User.Count(gctx, repository.UserFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.repos.User.Count(gctx, repository.UserFilter{IsActive: boolPtr(true)})
		return err
	})
	g.Go(func() error {
		var err error
		byRole, err = s.repos.User.CountByRole(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translate(err, "user stats")
	}

	stats := &models.UserStats{
		TotalUsers:    total,
		ActiveUsers:   active,
		InactiveUsers: total - active,
		ByRole:        make(map[models.Role]int, len(models.ValidRoles)),
	}
	for role := range models.ValidRoles {
		stats.ByRole[role] = byRole[role]
	}
	return stats, nil
}
