package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/logger"
	"github.com/d60-Lab/foodgram/pkg/token"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService 令牌登录、注销与请求认证
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (string, error)
	Logout(ctx context.Context, raw string) error
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *token.Manager
	denylist cache.TokenDenylist
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, denylist cache.TokenDenylist) AuthService {
	return &authService{users: users, tokens: tokens, denylist: denylist}
}

const badCredentials = "Unable to log in with provided credentials."

func (s *authService) Login(ctx context.Context, in LoginInput) (string, error) {
	if in.Email == "" || in.Password == "" {
		return "", rejected(badCredentials)
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", rejected(badCredentials)
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return "", rejected(badCredentials)
	}
	raw, _, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (s *authService) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return ErrUnauthorized
	}
	return s.denylist.Deny(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *authService) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, ErrUnauthorized
	}
	denied, err := s.denylist.Denied(ctx, claims.ID)
	if err != nil {
		logger.Warn("token denylist lookup failed", zap.Error(err))
		return nil, err
	}
	if denied {
		return nil, ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}
