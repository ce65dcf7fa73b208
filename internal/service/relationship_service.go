package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

// RelationshipService 订阅关系服务
type RelationshipService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	// ListSubscriptions recipesLimit < 0 表示返回作者全部菜谱
	ListSubscriptions(ctx context.Context, userID uint, page PageRequest, recipesLimit int) (Page[SubscriptionView], error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
	present    *presenter
}

func NewRelationshipService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
	store *media.Store,
) RelationshipService {
	return &relationshipService{
		followRepo: followRepo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		present:    &presenter{follows: followRepo, media: store},
	}
}

func (s *relationshipService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*SubscriptionView, error) {
	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID == authorID {
		return nil, rejected("You can't subscribe to yourself.")
	}
	exists, err := s.followRepo.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, rejected("You already follow this user.")
	}
	if err := s.followRepo.Create(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, rejected("You already follow this user.")
		}
		return nil, err
	}
	logger.Debug("subscribed", zap.Uint("user_id", userID), zap.Uint("author_id", authorID))

	views, err := s.subscriptions(ctx, []*model.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *relationshipService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.followRepo.Delete(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rejected("You are not subscribed to this user.")
		}
		return err
	}
	return nil
}

func (s *relationshipService) ListSubscriptions(ctx context.Context, userID uint, page PageRequest, recipesLimit int) (Page[SubscriptionView], error) {
	page = page.normalized()
	authors, total, err := s.followRepo.ListAuthors(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return Page[SubscriptionView]{}, err
	}
	views, err := s.subscriptions(ctx, authors, recipesLimit)
	if err != nil {
		return Page[SubscriptionView]{}, err
	}
	return Page[SubscriptionView]{Items: views, Total: total, PageRequest: page}, nil
}

// subscriptions 作者均为当前用户已关注的对象，is_subscribed 恒为 true
func (s *relationshipService) subscriptions(ctx context.Context, authors []*model.User, recipesLimit int) ([]SubscriptionView, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipeRepo.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]SubscriptionView, len(authors))
	for i, a := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		short := make([]ShortRecipeView, len(recipes))
		for j, r := range recipes {
			short[j] = s.present.short(r)
		}
		out[i] = SubscriptionView{
			UserView:     s.present.user(a, true),
			Recipes:      short,
			RecipesCount: counts[a.ID],
		}
	}
	return out, nil
}
