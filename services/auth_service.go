package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
	"github.com/matchops/cup-console/utils"
)

const tokenTTL = 24 * time.Hour

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type CreateUserInput struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret []byte, logger *slog.Logger) AuthService {
	return &authService{userRepo: userRepo, jwtSecret: jwtSecret, logger: logger}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return &LoginResult{Token: token, User: user}, nil
}

func (s *authService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidationFailed)
	}
	switch input.Role {
	case models.RoleAdmin, models.RoleOperator:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, input.Role)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidationFailed)
		}
		return nil, err
	}

	s.logger.Info("user created", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}
