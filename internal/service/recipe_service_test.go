package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/validation"
)

func baseInput(t *testing.T, tags []uint, items ...IngredientAmount) RecipeInput {
	return RecipeInput{
		Tags:        tags,
		Ingredients: items,
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Image:       imageData(t),
	}
}

func TestRecipeCreate_ReturnsFullView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	breakfast := f.tag(t, "breakfast")
	flour := f.ingredient(t, "flour", "g")

	v := f.recipe(t, author.ID, baseInput(t, []uint{breakfast.ID}, IngredientAmount{ID: flour.ID, Amount: 200}))

	assert.Equal(t, "Pancakes", v.Name)
	assert.Equal(t, author.ID, v.Author.ID)
	require.Len(t, v.Tags, 1)
	assert.Equal(t, "breakfast", v.Tags[0].Slug)
	require.Len(t, v.Ingredients, 1)
	assert.Equal(t, RecipeIngredientView{ID: flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200}, v.Ingredients[0])
	assert.Contains(t, v.Image, "http://testserver/media/recipes/")
	assert.False(t, v.IsFavorited)

	got, err := f.svc.Recipes.Get(ctx, 0, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func TestRecipeCreate_TagRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	tag := f.tag(t, "lunch")
	flour := f.ingredient(t, "flour", "g")
	item := IngredientAmount{ID: flour.ID, Amount: 1}

	_, err := f.svc.Recipes.Create(ctx, author.ID, baseInput(t, nil, item))
	assert.Equal(t, []string{"Add at least one tag."}, fieldErrors(t, err)["tags"])

	_, err = f.svc.Recipes.Create(ctx, author.ID, baseInput(t, []uint{tag.ID, tag.ID}, item))
	assert.Contains(t, fieldErrors(t, err)["tags"][0], "unique")

	_, err = f.svc.Recipes.Create(ctx, author.ID, baseInput(t, []uint{tag.ID, 999}, item))
	assert.Contains(t, fieldErrors(t, err)["tags"][0], "999")

	var count int64
	require.NoError(t, f.db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeCreate_IngredientRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	tags := []uint{f.tag(t, "dinner").ID}
	flour := f.ingredient(t, "flour", "g")

	_, err := f.svc.Recipes.Create(ctx, author.ID, baseInput(t, tags))
	assert.Equal(t, []string{"Add at least one ingredient."}, fieldErrors(t, err)["ingredients"])

	_, err = f.svc.Recipes.Create(ctx, author.ID, baseInput(t, tags,
		IngredientAmount{ID: flour.ID, Amount: 1}, IngredientAmount{ID: flour.ID, Amount: 2}))
	assert.Contains(t, fieldErrors(t, err)["ingredients"][0], "unique")

	_, err = f.svc.Recipes.Create(ctx, author.ID, baseInput(t, tags,
		IngredientAmount{ID: flour.ID, Amount: 1}, IngredientAmount{ID: 4242, Amount: 2}))
	msgs := fieldErrors(t, err)["ingredients"]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "4242")

	_, err = f.svc.Recipes.Create(ctx, author.ID, baseInput(t, tags, IngredientAmount{ID: flour.ID, Amount: 0}))
	assert.Contains(t, fieldErrors(t, err), "ingredients[0].amount")
}

func TestRecipeCreate_FieldRules(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "chef")
	in := baseInput(t, []uint{f.tag(t, "x").ID}, IngredientAmount{ID: f.ingredient(t, "salt", "g").ID, Amount: 1})
	in.Name = ""
	in.CookingTime = 0
	in.Image = ""

	_, err := f.svc.Recipes.Create(context.Background(), author.ID, in)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "cooking_time")
	assert.Contains(t, fields, "image")

	in = baseInput(t, in.Tags, in.Ingredients...)
	in.Image = "data:image/png;base64,bm90IGFuIGltYWdl"
	_, err = f.svc.Recipes.Create(context.Background(), author.ID, in)
	assert.Contains(t, fieldErrors(t, err), "image")
}

func TestRecipeUpdate_ReplacesRelationsAndKeepsImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	a, b := f.tag(t, "a"), f.tag(t, "b")
	flour, milk := f.ingredient(t, "flour", "g"), f.ingredient(t, "milk", "ml")
	created := f.recipe(t, author.ID, baseInput(t, []uint{a.ID}, IngredientAmount{ID: flour.ID, Amount: 100}))

	in := baseInput(t, []uint{b.ID}, IngredientAmount{ID: milk.ID, Amount: 300})
	in.Name = "Crepes"
	in.Image = ""
	updated, err := f.svc.Recipes.Update(ctx, author.ID, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Crepes", updated.Name)
	assert.Equal(t, created.Image, updated.Image)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, b.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, milk.ID, updated.Ingredients[0].ID)
}

func TestRecipeUpdate_InvalidLeavesPreviousState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	tag := f.tag(t, "a")
	flour := f.ingredient(t, "flour", "g")
	created := f.recipe(t, author.ID, baseInput(t, []uint{tag.ID}, IngredientAmount{ID: flour.ID, Amount: 100}))

	_, err := f.svc.Recipes.Update(ctx, author.ID, created.ID, baseInput(t, []uint{tag.ID}, IngredientAmount{ID: 777, Amount: 1}))
	_, ok := validation.As(err)
	require.True(t, ok)

	got, err := f.svc.Recipes.Get(ctx, 0, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Ingredients, got.Ingredients)
	assert.Equal(t, created.Tags, got.Tags)
}

func TestRecipeUpdateDelete_AuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author, other := f.user(t, "chef"), f.user(t, "guest")
	in := baseInput(t, []uint{f.tag(t, "a").ID}, IngredientAmount{ID: f.ingredient(t, "egg", "pcs").ID, Amount: 2})
	created := f.recipe(t, author.ID, in)

	_, err := f.svc.Recipes.Update(ctx, other.ID, created.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.Recipes.Delete(ctx, other.ID, created.ID), ErrForbidden)

	require.NoError(t, f.svc.Recipes.Delete(ctx, author.ID, created.ID))
	_, err = f.svc.Recipes.Get(ctx, 0, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Recipes.Delete(ctx, author.ID, created.ID), ErrNotFound)
}

func TestFavorite_AsymmetricErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author, fan := f.user(t, "chef"), f.user(t, "fan")
	created := f.recipe(t, author.ID, baseInput(t, []uint{f.tag(t, "a").ID}, IngredientAmount{ID: f.ingredient(t, "egg", "pcs").ID, Amount: 2}))

	short, err := f.svc.Recipes.AddFavorite(ctx, fan.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, short.ID)
	assert.Equal(t, created.Image, short.Image)

	_, err = f.svc.Recipes.AddFavorite(ctx, fan.ID, created.ID)
	assert.Equal(t, []string{`Recipe "Pancakes" is already in favorites.`}, fieldErrors(t, err)[validation.NonField])

	view, err := f.svc.Recipes.Get(ctx, fan.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)

	require.NoError(t, f.svc.Recipes.RemoveFavorite(ctx, fan.ID, created.ID))
	err = f.svc.Recipes.RemoveFavorite(ctx, fan.ID, created.ID)
	assert.Equal(t, []string{"Recipe is not in favorites."}, fieldErrors(t, err)[validation.NonField])

	_, err = f.svc.Recipes.AddFavorite(ctx, fan.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShoppingList_AggregatesByNameAndUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author, buyer := f.user(t, "chef"), f.user(t, "buyer")
	tags := []uint{f.tag(t, "a").ID}
	flour := f.ingredient(t, "flour", "g")
	flourCups := f.ingredient(t, "flour", "cup")
	milk := f.ingredient(t, "milk", "ml")

	r1 := f.recipe(t, author.ID, baseInput(t, tags,
		IngredientAmount{ID: flour.ID, Amount: 200}, IngredientAmount{ID: milk.ID, Amount: 100}))
	r2 := f.recipe(t, author.ID, baseInput(t, tags,
		IngredientAmount{ID: flour.ID, Amount: 50}, IngredientAmount{ID: flourCups.ID, Amount: 1}))
	f.recipe(t, author.ID, baseInput(t, tags, IngredientAmount{ID: milk.ID, Amount: 999}))

	for _, id := range []uint{r1.ID, r2.ID} {
		_, err := f.svc.Recipes.AddToCart(ctx, buyer.ID, id)
		require.NoError(t, err)
	}
	_, err := f.svc.Recipes.AddToCart(ctx, buyer.ID, r1.ID)
	assert.Contains(t, fieldErrors(t, err)[validation.NonField][0], "shopping cart")

	text, err := f.svc.Recipes.ShoppingList(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "flour - 1 (cup)\nflour - 250 (g)\nmilk - 100 (ml)", text)

	empty, err := f.svc.Recipes.ShoppingList(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecipeList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	sweet, salty := f.tag(t, "sweet"), f.tag(t, "salty")
	item := IngredientAmount{ID: f.ingredient(t, "sugar", "g").ID, Amount: 5}

	r1 := f.recipe(t, alice.ID, baseInput(t, []uint{sweet.ID}, item))
	r2 := f.recipe(t, bob.ID, baseInput(t, []uint{salty.ID}, item))
	_, err := f.svc.Recipes.AddFavorite(ctx, bob.ID, r1.ID)
	require.NoError(t, err)

	all, err := f.svc.Recipes.List(ctx, 0, RecipeQuery{}, PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
	assert.Equal(t, r2.ID, all.Items[0].ID, "newest first")

	byTag, err := f.svc.Recipes.List(ctx, 0, RecipeQuery{TagSlugs: []string{"sweet"}}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, byTag.Items, 1)
	assert.Equal(t, r1.ID, byTag.Items[0].ID)

	favs, err := f.svc.Recipes.List(ctx, bob.ID, RecipeQuery{Favorited: true}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, favs.Items, 1)
	assert.True(t, favs.Items[0].IsFavorited)

	anon, err := f.svc.Recipes.List(ctx, 0, RecipeQuery{Favorited: true}, PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, anon.Total, "favorite filter ignored for anonymous viewers")

	paged, err := f.svc.Recipes.List(ctx, 0, RecipeQuery{}, PageRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, r1.ID, paged.Items[0].ID)
	assert.False(t, paged.HasNext())
	assert.True(t, paged.HasPrevious())
}

func TestShortLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	r := f.recipe(t, author.ID, baseInput(t, []uint{f.tag(t, "a").ID}, IngredientAmount{ID: f.ingredient(t, "egg", "pcs").ID, Amount: 1}))

	link, err := f.svc.Recipes.ShortLink(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("http://testserver/s/%d/", r.ID), link)

	_, err = f.svc.Recipes.ShortLink(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
