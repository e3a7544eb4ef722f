package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pinstack/internal/auth/config"
	"pinstack/internal/auth/domain/model"
	"pinstack/internal/auth/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrSessionNotFound    = errors.New("session not found")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
)

// Password validation constants
const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	Logout(ctx context.Context, tokenString string) error
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	RefreshToken(ctx context.Context, tokenString string) (string, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	ResolveUser(ctx context.Context, userID, email string) (*model.User, error)
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Username  string `json:"username" validate:"required"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.AuthRepository
	tokenSvc repository.TokenService
	config   *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.AuthRepository,
	tokenSvc repository.TokenService,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		config:   cfg,
	}
}

// validateEmail validates email format
func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// validatePassword validates password strength
func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// Register creates a new user account
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, "", fmt.Errorf("username is required")
	}

	// Check if user already exists
	existingUser, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && err != ErrUserNotFound {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hashedPassword),
		AvatarURL:    strings.TrimSpace(req.AvatarURL),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := user.ValidateFields(); err != nil {
		return nil, "", err
	}

	err = uc.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	// Clear password hash before returning
	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates a user
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}

	user, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if err == ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Logout invalidates a session
func (uc *AuthUsecase) Logout(ctx context.Context, tokenString string) error {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return ErrTokenInvalid
	}

	err = uc.repo.DeleteUserSessions(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

// ValidateToken validates a JWT string
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RefreshToken generates a new token for a valid existing token
func (uc *AuthUsecase) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return "", ErrTokenInvalid
	}

	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", ErrUserNotFound
	}

	newToken, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate new token: %w", err)
	}

	return newToken, nil
}

// GetUserFromToken validates a token and fetches the associated user
func (uc *AuthUsecase) GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a user by ID
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

// ResolveUser maps an authenticated session to a user record. It looks up by id
// first and falls back to an email lookup so invitations accepted under a
// different login path still reconcile to the same account.
func (uc *AuthUsecase) ResolveUser(ctx context.Context, userID, email string) (*model.User, error) {
	if userID != "" {
		user, err := uc.repo.GetUserByID(ctx, userID)
		if err == nil {
			user.PasswordHash = ""
			return user, nil
		}
		if err != ErrUserNotFound {
			return nil, fmt.Errorf("failed to resolve user by id: %w", err)
		}
	}

	if email == "" {
		return nil, ErrUserNotFound
	}

	user, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
