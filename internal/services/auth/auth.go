// Package auth содержит бизнес-логику регистрации и входа пользователей:
// хеширование паролей и выпуск JWT токенов с email в claims.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trakio/trakio/internal/lib/jwt"
	"github.com/trakio/trakio/internal/lib/password"
	"github.com/trakio/trakio/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// RegisterUser сохраняет пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService реализует регистрацию и вход.
type AuthService struct {
	repo  UserRepository
	maker jwt.Maker
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo UserRepository, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Register создает пользователя с bcrypt-хэшем пароля и возвращает его UID.
func (s *AuthService) Register(ctx context.Context, email, plainPassword string) (string, error) {
	const op = "services.auth.Register"
	hash, err := password.GetHash(plainPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.repo.RegisterUser(ctx, models.User{
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("email", email))
	return uid, nil
}

// Login проверяет пароль и возвращает подписанный bearer-токен.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, error) {
	const op = "services.auth.Login"
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := password.CompareHash(user.PasswordHash, plainPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.maker.GenerateToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("email", email))
	return token, nil
}
