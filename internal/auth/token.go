// Package auth issues and verifies JWT access and refresh tokens and hashes
// passwords.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
	leeway      = 5 * time.Second
)

// Claims are the claims carried by both token kinds.
type Claims struct {
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
	Kind   string      `json:"kind"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HS256 tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager creates a token manager from auth settings.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	refresh := cfg.RefreshSecret
	if refresh == "" {
		refresh = cfg.JWTSecret
	}
	return &TokenManager{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(refresh),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		now:           time.Now,
	}
}

// WithClock makes the manager verify expiry against now instead of the wall clock.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// IssuePair creates a fresh access and refresh token for a user.
func (m *TokenManager) IssuePair(user *models.User, now time.Time) (models.TokenPair, error) {
	access, err := m.sign(user, kindAccess, m.accessSecret, m.accessTTL, now)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := m.sign(user, kindRefresh, m.refreshSecret, m.refreshTTL, now)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) sign(user *models.User, kind string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// ParseAccess validates an access token and returns its claims.
func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, kindAccess, m.accessSecret)
}

// ParseRefresh validates a refresh token and returns its claims.
func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, kindRefresh, m.refreshSecret)
}

func (m *TokenManager) parse(tokenStr, kind string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the digest stored server-side for a refresh token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
