package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

type recipeFixture struct {
	db     *gorm.DB
	repo   RecipeRepository
	author *model.User
	lunch  *model.Tag
	dinner *model.Tag
	salt   *model.Ingredient
	flour  *model.Ingredient
	eggs   *model.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	db := setupDB(t)
	return &recipeFixture{
		db:     db,
		repo:   NewRecipeRepository(db),
		author: seedUser(t, db, "chef"),
		lunch:  seedTag(t, db, "lunch"),
		dinner: seedTag(t, db, "dinner"),
		salt:   seedIngredient(t, db, "salt", "g"),
		flour:  seedIngredient(t, db, "flour", "g"),
		eggs:   seedIngredient(t, db, "eggs", "pcs"),
	}
}

func (f *recipeFixture) create(t *testing.T, name string, tags []uint, items []model.RecipeIngredient) *model.Recipe {
	rec := &model.Recipe{AuthorID: f.author.ID, Name: name, Text: "mix", CookingTime: 10, Image: "recipes/x.png"}
	require.NoError(t, f.repo.Create(context.Background(), rec, tags, items))
	return rec
}

func TestRecipeRepository_CreateAndGet(t *testing.T) {
	f := newRecipeFixture(t)
	rec := f.create(t, "bread", []uint{f.lunch.ID, f.dinner.ID}, []model.RecipeIngredient{
		{IngredientID: f.flour.ID, Amount: 500},
		{IngredientID: f.salt.ID, Amount: 5},
	})

	got, err := f.repo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "chef", got.Author.Username)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "dinner", got.Tags[0].Name)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "flour", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, uint(500), got.Ingredients[0].Amount)

	_, err = f.repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeRepository_UpdateReplacesRelations(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	rec := f.create(t, "bread", []uint{f.lunch.ID}, []model.RecipeIngredient{{IngredientID: f.flour.ID, Amount: 500}})

	rec.Name = "omelette"
	require.NoError(t, f.repo.Update(ctx, rec, []uint{f.dinner.ID}, []model.RecipeIngredient{{IngredientID: f.eggs.ID, Amount: 3}}))

	got, err := f.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "omelette", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, f.dinner.ID, got.Tags[0].ID)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "eggs", got.Ingredients[0].Ingredient.Name)

	var cnt int64
	require.NoError(t, f.db.Model(&model.RecipeIngredient{}).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
}

func TestRecipeRepository_UpdateRollsBackOnFailure(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	rec := f.create(t, "bread", []uint{f.lunch.ID}, []model.RecipeIngredient{{IngredientID: f.flour.ID, Amount: 500}})

	// 重复食材触发唯一索引，整个事务回滚
	rec.Name = "broken"
	err := f.repo.Update(ctx, rec, []uint{f.dinner.ID}, []model.RecipeIngredient{
		{IngredientID: f.eggs.ID, Amount: 1},
		{IngredientID: f.eggs.ID, Amount: 2},
	})
	require.Error(t, err)

	got, err := f.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "bread", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, f.lunch.ID, got.Tags[0].ID)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, f.flour.ID, got.Ingredients[0].IngredientID)
}

func TestRecipeRepository_ListFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	other := seedUser(t, f.db, "other")
	bread := f.create(t, "bread", []uint{f.lunch.ID}, []model.RecipeIngredient{{IngredientID: f.flour.ID, Amount: 1}})
	soup := f.create(t, "soup", []uint{f.dinner.ID}, []model.RecipeIngredient{{IngredientID: f.salt.ID, Amount: 1}})
	require.NoError(t, NewFavoriteRepository(f.db).Add(ctx, other.ID, bread.ID))
	require.NoError(t, NewShoppingCartRepository(f.db).Add(ctx, other.ID, soup.ID))

	all, total, err := f.repo.List(ctx, RecipeFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, soup.ID, all[0].ID, "newest first")

	byTag, total, err := f.repo.List(ctx, RecipeFilter{TagSlugs: []string{"lunch"}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, bread.ID, byTag[0].ID)

	fav, _, err := f.repo.List(ctx, RecipeFilter{FavoritedBy: other.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, fav, 1)
	assert.Equal(t, bread.ID, fav[0].ID)

	cart, _, err := f.repo.List(ctx, RecipeFilter{InCartOf: other.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, soup.ID, cart[0].ID)

	none, total, err := f.repo.List(ctx, RecipeFilter{AuthorID: other.ID}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)

	counts, err := f.repo.CountByAuthors(ctx, []uint{f.author.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[f.author.ID])
	assert.Zero(t, counts[other.ID])

	latest, err := f.repo.ListByAuthor(ctx, f.author.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, soup.ID, latest[0].ID)
}

func TestRecipeRepository_ShoppingListSumsByNameAndUnit(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	shopper := seedUser(t, f.db, "shopper")
	saltKg := seedIngredient(t, f.db, "salt", "kg")
	bread := f.create(t, "bread", []uint{f.lunch.ID}, []model.RecipeIngredient{
		{IngredientID: f.flour.ID, Amount: 500},
		{IngredientID: f.salt.ID, Amount: 5},
	})
	pie := f.create(t, "pie", []uint{f.lunch.ID}, []model.RecipeIngredient{
		{IngredientID: f.flour.ID, Amount: 300},
		{IngredientID: saltKg.ID, Amount: 1},
	})
	f.create(t, "not in cart", []uint{f.lunch.ID}, []model.RecipeIngredient{{IngredientID: f.eggs.ID, Amount: 12}})

	carts := NewShoppingCartRepository(f.db)
	require.NoError(t, carts.Add(ctx, shopper.ID, bread.ID))
	require.NoError(t, carts.Add(ctx, shopper.ID, pie.ID))

	items, err := f.repo.ShoppingList(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Total: 800},
		{Name: "salt", MeasurementUnit: "g", Total: 5},
		{Name: "salt", MeasurementUnit: "kg", Total: 1},
	}, items)
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	rec := f.create(t, "bread", []uint{f.lunch.ID}, []model.RecipeIngredient{{IngredientID: f.flour.ID, Amount: 1}})
	require.NoError(t, NewFavoriteRepository(f.db).Add(ctx, f.author.ID, rec.ID))

	require.NoError(t, f.repo.Delete(ctx, rec.ID))
	assert.ErrorIs(t, f.repo.Delete(ctx, rec.ID), ErrNotFound)

	ok, err := f.repo.Exists(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var cnt int64
	require.NoError(t, f.db.Model(&model.Favorite{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}
