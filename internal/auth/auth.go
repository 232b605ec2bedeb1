package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/arriendo-app/api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Token validation errors.
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Session is the authenticated identity attached to a request. It is
// built from a validated bearer token and passed explicitly into every
// service call; there is no ambient session state.
type Session struct {
	UserID string
	Role   models.Role
}

// IsLandlord reports whether the session belongs to a landlord.
func (s Session) IsLandlord() bool {
	return s.Role == models.RoleLandlord
}

// IsTenant reports whether the session belongs to a tenant.
func (s Session) IsTenant() bool {
	return s.Role == models.RoleTenant
}

// claims is the JWT payload for issued access tokens.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret
// and token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed access token for the given user.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a bearer token and returns the session it
// represents. Returns ErrInvalidToken for any malformed, expired, or
// tampered token.
func (m *TokenManager) Validate(tokenString string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return Session{}, ErrInvalidToken
	}

	role := models.Role(c.Role)
	if !role.Valid() {
		return Session{}, ErrInvalidToken
	}

	return Session{UserID: c.Subject, Role: role}, nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password with a stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
