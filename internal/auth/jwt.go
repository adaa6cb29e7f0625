// Package auth issues and validates the bearer tokens that guard editorial
// routes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
)

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies HS256 editor tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	leeway time.Duration
}

// NewJWTManager creates a manager from the auth settings.
func NewJWTManager(cfg config.AuthConfig) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.AccessTokenTTL,
		leeway: cfg.ClockSkew,
	}
}

type editorClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GenerateAccessToken signs a token for subject acting with role. Each token
// carries a fresh id so it can be traced in logs.
func (m *JWTManager) GenerateAccessToken(subject, role string) (string, error) {
	subject, role = strings.TrimSpace(subject), strings.TrimSpace(role)
	if subject == "" {
		return "", errors.New("subject is empty")
	}
	if role == "" {
		return "", errors.New("role is empty")
	}

	now := time.Now()
	claims := editorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken verifies signature, issuer and expiry, and returns the
// subject and role. Every failure wraps ErrInvalidToken.
func (m *JWTManager) ValidateAccessToken(token string) (subject, role string, err error) {
	if token == "" {
		return "", "", fmt.Errorf("empty token: %w", ErrInvalidToken)
	}

	var claims editorClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
	)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", "", fmt.Errorf("missing subject: %w", ErrInvalidToken)
	}
	return claims.Subject, claims.Role, nil
}
