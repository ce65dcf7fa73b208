package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/validation"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

// RecipeQuery 列表过滤条件；Favorited/InCart 仅对已登录访问者生效
type RecipeQuery struct {
	AuthorID  uint
	TagSlugs  []string
	Favorited bool
	InCart    bool
}

// RecipeService 菜谱读写、收藏、购物车与购物清单
type RecipeService interface {
	Create(ctx context.Context, authorID uint, in RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, userID, recipeID uint, in RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, userID, recipeID uint) error
	Get(ctx context.Context, viewerID, recipeID uint) (*RecipeView, error)
	List(ctx context.Context, viewerID uint, q RecipeQuery, page PageRequest) (Page[RecipeView], error)

	AddFavorite(ctx context.Context, userID, recipeID uint) (*ShortRecipeView, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToCart(ctx context.Context, userID, recipeID uint) (*ShortRecipeView, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
	// ShoppingList 纯文本购物清单，每行 "<name> - <sum> (<unit>)"
	ShoppingList(ctx context.Context, userID uint) (string, error)

	ShortLink(ctx context.Context, recipeID uint) (string, error)
	Exists(ctx context.Context, recipeID uint) (bool, error)
}

type recipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	favorites   repository.MembershipRepository
	carts       repository.MembershipRepository
	media       *media.Store
	present     *presenter
	baseURL     string
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TagRepository,
	ingredients repository.IngredientRepository,
	follows repository.FollowRepository,
	favorites repository.MembershipRepository,
	carts repository.MembershipRepository,
	store *media.Store,
	baseURL string,
) RecipeService {
	return &recipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		favorites:   favorites,
		carts:       carts,
		media:       store,
		present:     &presenter{follows: follows, favorites: favorites, carts: carts, media: store},
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (s *recipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*RecipeView, error) {
	errs, err := s.validateWrite(ctx, &in, true)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	image, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}
	rec := &model.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Image:       image,
	}
	if err := s.recipes.Create(ctx, rec, in.Tags, in.items()); err != nil {
		s.media.Delete(image)
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	logger.Info("recipe created", zap.Uint("recipe_id", rec.ID), zap.Uint("author_id", authorID))
	return s.Get(ctx, authorID, rec.ID)
}

func (s *recipeService) Update(ctx context.Context, userID, recipeID uint, in RecipeInput) (*RecipeView, error) {
	current, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != userID {
		return nil, ErrForbidden
	}

	errs, err := s.validateWrite(ctx, &in, false)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	image := current.Image
	if strings.TrimSpace(in.Image) != "" {
		if image, err = s.saveImage(in.Image); err != nil {
			return nil, err
		}
	}
	rec := &model.Recipe{
		ID:          recipeID,
		AuthorID:    current.AuthorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Image:       image,
	}
	if err := s.recipes.Update(ctx, rec, in.Tags, in.items()); err != nil {
		if image != current.Image {
			s.media.Delete(image)
		}
		return nil, fmt.Errorf("update recipe %d: %w", recipeID, err)
	}
	if image != current.Image {
		s.media.Delete(current.Image)
	}
	return s.Get(ctx, userID, recipeID)
}

func (s *recipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	current, err := s.load(ctx, recipeID)
	if err != nil {
		return err
	}
	if current.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.media.Delete(current.Image)
	return nil
}

func (s *recipeService) Get(ctx context.Context, viewerID, recipeID uint) (*RecipeView, error) {
	rec, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.present.recipe(ctx, viewerID, rec)
}

func (s *recipeService) List(ctx context.Context, viewerID uint, q RecipeQuery, page PageRequest) (Page[RecipeView], error) {
	page = page.normalized()
	f := repository.RecipeFilter{AuthorID: q.AuthorID, TagSlugs: q.TagSlugs}
	if viewerID != 0 {
		if q.Favorited {
			f.FavoritedBy = viewerID
		}
		if q.InCart {
			f.InCartOf = viewerID
		}
	}
	recipes, total, err := s.recipes.List(ctx, f, page.Offset(), page.Limit)
	if err != nil {
		return Page[RecipeView]{}, err
	}
	views, err := s.present.recipes(ctx, viewerID, recipes)
	if err != nil {
		return Page[RecipeView]{}, err
	}
	return Page[RecipeView]{Items: views, Total: total, PageRequest: page}, nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID, recipeID uint) (*ShortRecipeView, error) {
	return s.addMember(ctx, s.favorites, userID, recipeID, "favorites")
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.removeMember(ctx, s.favorites, userID, recipeID, "favorites")
}

func (s *recipeService) AddToCart(ctx context.Context, userID, recipeID uint) (*ShortRecipeView, error) {
	return s.addMember(ctx, s.carts, userID, recipeID, "the shopping cart")
}

func (s *recipeService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.removeMember(ctx, s.carts, userID, recipeID, "the shopping cart")
}

// addMember 已存在时报错而不是静默忽略
func (s *recipeService) addMember(ctx context.Context, repo repository.MembershipRepository, userID, recipeID uint, list string) (*ShortRecipeView, error) {
	rec, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	exists, err := repo.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, rejected(fmt.Sprintf("Recipe %q is already in %s.", rec.Name, list))
	}
	if err := repo.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, rejected(fmt.Sprintf("Recipe %q is already in %s.", rec.Name, list))
		}
		return nil, err
	}
	v := s.present.short(rec)
	return &v, nil
}

func (s *recipeService) removeMember(ctx context.Context, repo repository.MembershipRepository, userID, recipeID uint, list string) error {
	if _, err := s.load(ctx, recipeID); err != nil {
		return err
	}
	if err := repo.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rejected(fmt.Sprintf("Recipe is not in %s.", list))
		}
		return err
	}
	return nil
}

func (s *recipeService) ShoppingList(ctx context.Context, userID uint) (string, error) {
	items, err := s.recipes.ShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%s - %d (%s)", it.Name, it.Total, it.MeasurementUnit)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *recipeService) ShortLink(ctx context.Context, recipeID uint) (string, error) {
	ok, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	return fmt.Sprintf("%s/s/%d/", s.baseURL, recipeID), nil
}

func (s *recipeService) Exists(ctx context.Context, recipeID uint) (bool, error) {
	return s.recipes.Exists(ctx, recipeID)
}

func (s *recipeService) load(ctx context.Context, recipeID uint) (*model.Recipe, error) {
	rec, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *recipeService) saveImage(data string) (string, error) {
	rel, err := s.media.SaveBase64(media.DirRecipes, data)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			return "", validation.FieldError("image", err.Error())
		}
		return "", err
	}
	return rel, nil
}
