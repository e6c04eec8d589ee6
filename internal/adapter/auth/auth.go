// Package auth resolves the actor role from bearer tokens. The catalog
// core receives the resolved role as an opaque input and never touches
// token material itself.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/moyo/product-approval/internal/core/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const tokenTTL = 24 * time.Hour

type roleClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Session is the login response payload.
type Session struct {
	Email string
	Role  domain.Role
	Token string
}

type credential struct {
	passwordHash []byte
	role         domain.Role
}

// Service issues and verifies HS256 tokens for the demo user set.
type Service struct {
	signingKey []byte
	users      map[string]credential
}

// demo accounts; the password is shared across both.
const demoPassword = "test123"

func NewService(signingKey string) (Service, error) {
	const op = "auth.NewService"

	if signingKey == "" {
		return Service{}, fmt.Errorf("%s: signing key is required", op)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return Service{}, fmt.Errorf("%s: %w", op, err)
	}

	users := map[string]credential{
		"capturer@test.com": {passwordHash: hash, role: domain.RoleCapturer},
		"manager@test.com":  {passwordHash: hash, role: domain.RoleManager},
	}

	return Service{signingKey: []byte(signingKey), users: users}, nil
}

func (s Service) Login(
	ctx context.Context, email, password string,
) (Session, error) {
	const op = "Service.Login"

	if err := ctx.Err(); err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	cred, ok := s.users[email]
	if !ok {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password))
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	claims := roleClaims{
		Role: string(cred.role),
		StandardClaims: jwt.StandardClaims{
			Subject:   email,
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return Session{Email: email, Role: cred.role, Token: tokenString}, nil
}

// ResolveRole verifies the token signature and expiry and extracts the
// actor role claim.
func (s Service) ResolveRole(tokenString string) (domain.Role, error) {
	const op = "Service.ResolveRole"

	var claims roleClaims
	token, err := jwt.ParseWithClaims(
		tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.signingKey, nil
		},
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	role := domain.Role(claims.Role)
	switch role {
	case domain.RoleCapturer, domain.RoleManager:
		return role, nil
	}
	return "", fmt.Errorf("%s: unknown role %q: %w", op, claims.Role, ErrInvalidToken)
}
