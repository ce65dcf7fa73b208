package service

import (
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/token"
)

// Repositories 一个数据库连接上的全部仓储
type Repositories struct {
	Users       repository.UserRepository
	Follows     repository.FollowRepository
	Tags        repository.TagRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	Favorites   repository.MembershipRepository
	Carts       repository.MembershipRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       repository.NewUserRepository(db),
		Follows:     repository.NewFollowRepository(db),
		Tags:        repository.NewTagRepository(db),
		Ingredients: repository.NewIngredientRepository(db),
		Recipes:     repository.NewRecipeRepository(db),
		Favorites:   repository.NewFavoriteRepository(db),
		Carts:       repository.NewShoppingCartRepository(db),
	}
}

// Deps 构造服务所需的外部依赖
type Deps struct {
	Media      *media.Store
	Tokens     *token.Manager
	Denylist   cache.TokenDenylist
	Catalog    cache.Catalog
	BaseURL    string
	BcryptCost int
}

type Services struct {
	Auth          AuthService
	Users         UserService
	Relationships RelationshipService
	Recipes       RecipeService
	Catalog       CatalogService
	Importer      *Importer
}

func NewServices(repos *Repositories, deps Deps) *Services {
	if deps.Denylist == nil {
		deps.Denylist = cache.NewMemoryDenylist()
	}
	return &Services{
		Auth:          NewAuthService(repos.Users, deps.Tokens, deps.Denylist),
		Users:         NewUserService(repos.Users, repos.Follows, deps.Media, deps.BcryptCost),
		Relationships: NewRelationshipService(repos.Follows, repos.Users, repos.Recipes, deps.Media),
		Recipes: NewRecipeService(
			repos.Recipes, repos.Tags, repos.Ingredients,
			repos.Follows, repos.Favorites, repos.Carts,
			deps.Media, deps.BaseURL,
		),
		Catalog:  NewCatalogService(repos.Tags, repos.Ingredients, deps.Catalog),
		Importer: NewImporter(repos.Tags, repos.Ingredients, deps.Catalog),
	}
}
