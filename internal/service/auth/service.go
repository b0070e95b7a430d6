package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"crm-backoffice/internal/domain"
	tokenstore "crm-backoffice/internal/repository/token"
	userrepo "crm-backoffice/internal/repository/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service authenticates staff users and manages their tokens: short-lived
// JWT access tokens plus opaque refresh tokens held in the token store.
type Service struct {
	users      userrepo.Repository
	tokens     tokenstore.Store
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a Service with the given signing secret.
func New(users userrepo.Repository, tokens tokenstore.Store, secret string) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		secret:     []byte(secret),
		accessTTL:  time.Hour,
		refreshTTL: 7 * 24 * time.Hour,
	}
}

// Login verifies credentials and returns the user plus an access/refresh
// token pair. A missing user surfaces domain.ErrNotFound so the handler can
// distinguish it from a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.issueAccess(u.ID)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.issueRefresh(ctx, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Refresh rotates a refresh token and issues a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.tokens.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}

	access, err := s.issueAccess(userID)
	if err != nil {
		return "", "", err
	}
	next, err := s.issueRefresh(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return "", "", err
	}
	return access, next, nil
}

// Logout revokes a refresh token. Revoking an unknown token is not an
// error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// VerifyAccess validates a JWT access token and returns the user id it was
// issued for.
func (s *Service) VerifyAccess(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *Service) issueAccess(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) issueRefresh(ctx context.Context, userID string) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := s.tokens.Save(ctx, token, userID, s.refreshTTL); err != nil {
		return "", err
	}
	return token, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
