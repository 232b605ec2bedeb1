package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/google/uuid"
)

// Auth service errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// TokenResult is the outcome of a successful login.
type TokenResult struct {
	AccessToken string
	TokenType   string
	Role        models.Role
	UserID      string
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber *string
	Role        models.Role
}

// AuthService defines the interface for session and account operations.
type AuthService interface {
	// Login verifies credentials and issues a bearer token.
	// Returns ErrInvalidCredentials when the email or password is wrong.
	Login(ctx context.Context, email, password string) (*TokenResult, error)

	// Register creates a new user account.
	// Returns ErrEmailTaken when the email is already registered.
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
}

// authService is the concrete implementation of AuthService.
type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	log    *logger.Logger
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, log *logger.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to look up user for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Compare against a constant-cost failure path so an unknown email
	// behaves the same as a wrong password.
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.log.Warn("Login rejected", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error("Failed to issue token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return &TokenResult{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
		UserID:      user.ID,
	}, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be landlord or tenant", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         input.Role,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		s.log.Error("Failed to create user", err, map[string]interface{}{
			"email": user.Email,
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return user, nil
}
