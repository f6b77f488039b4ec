package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/metrics"
	"github.com/news-portal-api/internal/models"
	"github.com/news-portal-api/internal/policy"
)

// authService implements AuthService
type authService struct {
	deps
	tokens *auth.TokenManager
	log    zerolog.Logger
}

func newAuthService(d deps, tokens *auth.TokenManager, log zerolog.Logger) *authService {
	return &authService{
		deps:   d,
		tokens: tokens,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validator.ValidateLogin(email, password); err != nil {
		return nil, translate(err, "credentials")
	}

	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, translate(err, "user")
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		metrics.ObserveLogin("failure")
		return nil, apperr.Unauthenticated("invalid email or password")
	}
	if !user.IsActive {
		metrics.ObserveLogin("inactive")
		return nil, apperr.Unauthenticated("account is deactivated")
	}

	now := s.now()
	pair, err := s.tokens.IssuePair(user, now)
	if err != nil {
		return nil, apperr.Upstream("failed to issue tokens", err)
	}
	if err := s.repos.User.RecordLogin(ctx, user.ID, now, auth.HashToken(pair.RefreshToken)); err != nil {
		return nil, translate(err, "user")
	}
	user.LastLogin = &now

	metrics.ObserveLogin("success")
	s.log.Info().Str("user_id", user.ID).Msg("User logged in")
	return &models.LoginResult{User: user, TokenPair: pair}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, invalid("refreshToken", "refresh token is required")
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid or expired refresh token")
	}

	user, err := s.repos.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, translate(err, "user")
	}
	if user == nil || !user.IsActive || user.RefreshToken == "" || user.RefreshToken != auth.HashToken(refreshToken) {
		return nil, apperr.Unauthenticated("invalid or expired refresh token")
	}

	pair, err := s.tokens.IssuePair(user, s.now())
	if err != nil {
		return nil, apperr.Upstream("failed to issue tokens", err)
	}
	if err := s.repos.User.SetRefreshToken(ctx, user.ID, auth.HashToken(pair.RefreshToken)); err != nil {
		return nil, translate(err, "user")
	}
	return &pair, nil
}

func (s *authService) Logout(ctx context.Context, p *policy.Principal) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if err := s.repos.User.SetRefreshToken(ctx, p.ID, ""); err != nil {
		return translate(err, "user")
	}
	s.log.Info().Str("user_id", p.ID).Msg("User logged out")
	return nil
}

// Authenticate resolves an access token to a principal. The role comes from
// the stored user so demotions apply before the token expires.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*policy.Principal, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("token expired")
		}
		return nil, apperr.Unauthenticated("invalid token")
	}

	user, err := s.repos.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, translate(err, "user")
	}
	if user == nil {
		return nil, apperr.Unauthenticated("user no longer exists")
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("account is deactivated")
	}
	return &policy.Principal{ID: user.ID, Role: user.Role}, nil
}

func (s *authService) current(ctx context.Context, p *policy.Principal) (*models.User, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	user, err := s.repos.User.GetByID(ctx, p.ID)
	if err != nil {
		return nil, translate(err, "user")
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, p *policy.Principal) (*models.User, error) {
	return s.current(ctx, p)
}

func (s *authService) ChangePassword(ctx context.Context, p *policy.Principal, current, next string) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if err := s.validator.ValidatePasswordChange(current, next); err != nil {
		return translate(err, "password")
	}
	user, err := s.current(ctx, p)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return invalid("currentPassword", "current password is incorrect")
	}

	hash, err := auth.HashPassword(next, s.cfg.Auth.BcryptCost)
	if err != nil {
		return apperr.Upstream("failed to hash password", err)
	}
	if err := s.repos.User.UpdatePassword(ctx, user.ID, hash); err != nil {
		return translate(err, "user")
	}

	s.log.Info().Str("user_id", user.ID).Msg("Password changed")
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, p *policy.Principal, update models.ProfileUpdate) (*models.User, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	fields := make([]string, 0, len(update))
	for f := range update {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	if err := policy.CheckProfileUpdate(p.Role, fields); err != nil {
		return nil, apperr.Forbidden(err.Error())
	}
	if err := s.validator.ValidateProfile(update); err != nil {
		return nil, translate(err, "profile")
	}

	user, err := s.current(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		value := strings.TrimSpace(update[f])
		switch f {
		case "name":
			user.Name = value
		case "phone":
			user.Phone = value
		case "bio":
			user.Bio = value
		case "avatar":
			user.Avatar = value
		case "email":
			email := strings.ToLower(value)
			if email != user.Email {
				exists, err := s.repos.User.EmailExists(ctx, email, user.ID)
				if err != nil {
					return nil, translate(err, "user")
				}
				if exists {
					return nil, apperr.Conflict("a user with this email already exists")
				}
			}
			user.Email = email
		}
	}
	user.UpdatedAt = s.now()

	if err := s.repos.User.Update(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}
