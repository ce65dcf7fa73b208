package service

import (
	"context"

	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
)

type UserView struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          uint   `json:"amount"`
}

// RecipeView 菜谱的完整读表示，is_* 字段相对当前访问者
type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []model.Tag            `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      uint                   `json:"cooking_time"`
}

type ShortRecipeView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime uint   `json:"cooking_time"`
}

// SubscriptionView 被关注作者及其最新菜谱
type SubscriptionView struct {
	UserView
	Recipes      []ShortRecipeView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// presenter 把模型转换为带访问者视角的读表示
type presenter struct {
	follows   repository.FollowRepository
	favorites repository.MembershipRepository
	carts     repository.MembershipRepository
	media     *media.Store
}

func (p *presenter) user(u *model.User, subscribed bool) UserView {
	v := UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		url := p.media.URL(u.Avatar)
		v.Avatar = &url
	}
	return v
}

func (p *presenter) users(ctx context.Context, viewerID uint, users []*model.User) ([]UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := p.follows.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = p.user(u, followed[u.ID])
	}
	return out, nil
}

func (p *presenter) short(r *model.Recipe) ShortRecipeView {
	return ShortRecipeView{ID: r.ID, Name: r.Name, Image: p.media.URL(r.Image), CookingTime: r.CookingTime}
}

func (p *presenter) recipes(ctx context.Context, viewerID uint, recipes []*model.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}
	followed, err := p.follows.FollowedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	favorited, err := p.favorites.ContainedAmong(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	carted, err := p.carts.ContainedAmong(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeView, len(recipes))
	for i, r := range recipes {
		tags := r.Tags
		if tags == nil {
			tags = []model.Tag{}
		}
		items := make([]RecipeIngredientView, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			items[j] = RecipeIngredientView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}
		out[i] = RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           p.user(&r.Author, followed[r.AuthorID]),
			Ingredients:      items,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: carted[r.ID],
			Name:             r.Name,
			Image:            p.media.URL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return out, nil
}

func (p *presenter) recipe(ctx context.Context, viewerID uint, r *model.Recipe) (*RecipeView, error) {
	views, err := p.recipes(ctx, viewerID, []*model.Recipe{r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
