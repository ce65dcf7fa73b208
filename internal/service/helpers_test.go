package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/media"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/validation"
	"github.com/d60-Lab/foodgram/pkg/database"
	"github.com/d60-Lab/foodgram/pkg/token"
)

type fixture struct {
	db    *gorm.DB
	repos *Repositories
	svc   *Services
	store *media.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := media.NewStore(t.TempDir(), "http://testserver/media/", 64, 64)
	repos := NewRepositories(db)
	svc := NewServices(repos, Deps{
		Media:      store,
		Tokens:     token.NewManager("test-secret", time.Hour),
		Denylist:   cache.NewMemoryDenylist(),
		Catalog:    cache.Passthrough{},
		BaseURL:    "http://testserver/",
		BcryptCost: bcrypt.MinCost,
	})
	return &fixture{db: db, repos: repos, svc: svc, store: store}
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "x",
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) tag(t *testing.T, name string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name, Slug: name}
	require.NoError(t, f.db.Create(tag).Error)
	return tag
}

func (f *fixture) ingredient(t *testing.T, name, unit string) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, f.db.Create(ing).Error)
	return ing
}

func (f *fixture) recipe(t *testing.T, authorID uint, in RecipeInput) *RecipeView {
	t.Helper()
	v, err := f.svc.Recipes.Create(context.Background(), authorID, in)
	require.NoError(t, err)
	return v
}

func imageData(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(8, 8, color.Black), imaging.PNG))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// fieldErrors 断言 err 为校验错误并返回字段映射
func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	ve, ok := validation.As(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return ve.Fields()
}
