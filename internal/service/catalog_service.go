package service

import (
	"context"
	"errors"
	"strings"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
)

// CatalogService 标签与食材目录的只读访问
type CatalogService interface {
	Tags(ctx context.Context) ([]*model.Tag, error)
	Tag(ctx context.Context, id uint) (*model.Tag, error)
	// Ingredients 按名称前缀过滤，prefix 为空时返回全部
	Ingredients(ctx context.Context, prefix string) ([]*model.Ingredient, error)
	Ingredient(ctx context.Context, id uint) (*model.Ingredient, error)
}

type catalogService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	cache       cache.Catalog
}

func NewCatalogService(tags repository.TagRepository, ingredients repository.IngredientRepository, c cache.Catalog) CatalogService {
	if c == nil {
		c = cache.Passthrough{}
	}
	return &catalogService{tags: tags, ingredients: ingredients, cache: c}
}

func (s *catalogService) Tags(ctx context.Context) ([]*model.Tag, error) {
	return s.cache.Tags(ctx, s.tags.List)
}

func (s *catalogService) Tag(ctx context.Context, id uint) (*model.Tag, error) {
	t, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *catalogService) Ingredients(ctx context.Context, prefix string) ([]*model.Ingredient, error) {
	prefix = strings.TrimSpace(prefix)
	return s.cache.Ingredients(ctx, prefix, func(ctx context.Context) ([]*model.Ingredient, error) {
		return s.ingredients.Search(ctx, prefix)
	})
}

func (s *catalogService) Ingredient(ctx context.Context, id uint) (*model.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return ing, err
}
