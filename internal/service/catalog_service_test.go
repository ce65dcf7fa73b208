package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lunch := f.tag(t, "lunch")
	f.tag(t, "breakfast")
	sugar := f.ingredient(t, "Sugar", "g")
	f.ingredient(t, "salt", "g")
	f.ingredient(t, "milk", "ml")

	tags, err := f.svc.Catalog.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Name)

	tag, err := f.svc.Catalog.Tag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", tag.Slug)
	_, err = f.svc.Catalog.Tag(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.svc.Catalog.Ingredients(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := f.svc.Catalog.Ingredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ing, err := f.svc.Catalog.Ingredient(ctx, sugar.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", ing.MeasurementUnit)
	_, err = f.svc.Catalog.Ingredient(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
