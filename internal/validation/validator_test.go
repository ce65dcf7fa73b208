package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username"`
}

type line struct {
	ID     uint `json:"id" validate:"required"`
	Amount uint `json:"amount" validate:"min=1"`
}

type recipe struct {
	Lines []line `json:"ingredients" validate:"min=1,dive"`
}

func TestStruct_FieldNamesFromJSON(t *testing.T) {
	errs := Struct(&signup{Email: "nope", Username: "bad name!"})
	require.NotNil(t, errs)
	fields := errs.Fields()
	assert.Equal(t, []string{"Enter a valid email address."}, fields["email"])
	assert.Contains(t, fields["username"][0], "restricted symbols")
}

func TestStruct_ReservedUsername(t *testing.T) {
	errs := Struct(&signup{Email: "a@b.io", Username: "me"})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Username me is not allowed."}, errs.Fields()["username"])
}

func TestStruct_Valid(t *testing.T) {
	assert.Nil(t, Struct(&signup{Email: "a@b.io", Username: "chef.anna"}))
}

func TestStruct_NestedPath(t *testing.T) {
	errs := Struct(&recipe{Lines: []line{{ID: 1, Amount: 0}}})
	require.NotNil(t, errs)
	assert.True(t, errs.Has("ingredients[0].amount"))

	errs = Struct(&recipe{})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Ensure this list has at least 1 items."}, errs.Fields()["ingredients"])
}

func TestErrors_ErrAndAs(t *testing.T) {
	e := New()
	assert.NoError(t, e.Err())

	e.Add("tags", "Tags must be unique.")
	e.Addf("ingredients", "Ingredients do not exist: %v", []uint{7})
	err := fmt.Errorf("create recipe: %w", e.Err())

	got, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "ingredients: Ingredients do not exist: [7]; tags: Tags must be unique.", got.Error())

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
