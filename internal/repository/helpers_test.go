package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/database"
)

func setupDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.OpenMemory()
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "p",
	}
	require.NoError(tb, db.Create(u).Error)
	return u
}

func seedTag(tb testing.TB, db *gorm.DB, name string) *model.Tag {
	tb.Helper()
	t := &model.Tag{Name: name, Slug: name}
	require.NoError(tb, db.Create(t).Error)
	return t
}

func seedIngredient(tb testing.TB, db *gorm.DB, name, unit string) *model.Ingredient {
	tb.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(tb, db.Create(ing).Error)
	return ing
}
