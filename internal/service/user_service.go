package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/validation"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=150"`
}

type SetPasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=150"`
}

// UserService 用户注册、资料与头像
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*UserView, error)
	Get(ctx context.Context, viewerID, id uint) (*UserView, error)
	List(ctx context.Context, viewerID uint, page PageRequest) (Page[UserView], error)
	SetPassword(ctx context.Context, userID uint, in SetPasswordInput) error
	SetAvatar(ctx context.Context, userID uint, data string) (string, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

type userService struct {
	users      repository.UserRepository
	media      *media.Store
	present    *presenter
	bcryptCost int
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository, store *media.Store, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		media:      store,
		present:    &presenter{follows: follows, media: store},
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	errs := validation.Struct(&in)
	if errs == nil {
		errs = validation.New()
	}
	if !errs.Has("email") {
		taken, err := s.users.EmailTaken(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "A user with that email already exists.")
		}
	}
	if !errs.Has("username") {
		taken, err := s.users.UsernameTaken(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, rejected("A user with that email or username already exists.")
		}
		return nil, err
	}
	logger.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	v := s.present.user(u, false)
	return &v, nil
}

func (s *userService) Get(ctx context.Context, viewerID, id uint) (*UserView, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	views, err := s.present.users(ctx, viewerID, []*model.User{u})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *userService) List(ctx context.Context, viewerID uint, page PageRequest) (Page[UserView], error) {
	page = page.normalized()
	users, total, err := s.users.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return Page[UserView]{}, err
	}
	views, err := s.present.users(ctx, viewerID, users)
	if err != nil {
		return Page[UserView]{}, err
	}
	return Page[UserView]{Items: views, Total: total, PageRequest: page}, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, in SetPasswordInput) error {
	if errs := validation.Struct(&in); errs != nil {
		return errs
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return validation.FieldError("current_password", "Invalid password.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *userService) SetAvatar(ctx context.Context, userID uint, data string) (string, error) {
	if strings.TrimSpace(data) == "" {
		return "", validation.FieldError("avatar", "This field is required.")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	rel, err := s.media.SaveBase64(media.DirAvatars, data)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			return "", validation.FieldError("avatar", err.Error())
		}
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userID, rel); err != nil {
		s.media.Delete(rel)
		return "", err
	}
	s.media.Delete(u.Avatar)
	return s.media.URL(rel), nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateAvatar(ctx, userID, ""); err != nil {
		return err
	}
	s.media.Delete(u.Avatar)
	return nil
}
