package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/validation"
)

// IngredientAmount 写请求中的一行食材引用
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount uint `json:"amount" validate:"min=1,max=32000"`
}

// RecipeInput 创建与更新菜谱的写表示；Image 为 base64 data URL
type RecipeInput struct {
	Tags        []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"dive"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime uint               `json:"cooking_time" validate:"min=1,max=32000"`
	Image       string             `json:"image"`
}

// validateWrite 校验写请求，所有字段错误一次性返回；err 仅表示查询失败
func (s *recipeService) validateWrite(ctx context.Context, in *RecipeInput, requireImage bool) (*validation.Errors, error) {
	in.Name = strings.TrimSpace(in.Name)
	errs := validation.Struct(in)
	if errs == nil {
		errs = validation.New()
	}

	if requireImage && strings.TrimSpace(in.Image) == "" {
		errs.Add("image", "This field is required.")
	}

	switch {
	case len(in.Tags) == 0:
		errs.Add("tags", "Add at least one tag.")
	case len(duplicates(in.Tags)) > 0:
		errs.Addf("tags", "Tags must be unique, repeated: %s.", joinIDs(duplicates(in.Tags)))
	default:
		found, err := s.tags.FindByIDs(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		known := make([]uint, len(found))
		for i, t := range found {
			known[i] = t.ID
		}
		if missing := missingIDs(in.Tags, known); len(missing) > 0 {
			errs.Addf("tags", "Tags do not exist: %s.", joinIDs(missing))
		}
	}

	ids := make([]uint, len(in.Ingredients))
	for i, it := range in.Ingredients {
		ids[i] = it.ID
	}
	switch {
	case len(ids) == 0:
		errs.Add("ingredients", "Add at least one ingredient.")
	case len(duplicates(ids)) > 0:
		errs.Addf("ingredients", "Ingredients must be unique, repeated: %s.", joinIDs(duplicates(ids)))
	default:
		found, err := s.ingredients.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		known := make([]uint, len(found))
		for i, ing := range found {
			known[i] = ing.ID
		}
		if missing := missingIDs(ids, known); len(missing) > 0 {
			errs.Addf("ingredients", "Ingredients do not exist: %s.", joinIDs(missing))
		}
	}
	return errs, nil
}

func (in *RecipeInput) items() []model.RecipeIngredient {
	out := make([]model.RecipeIngredient, len(in.Ingredients))
	for i, it := range in.Ingredients {
		out[i] = model.RecipeIngredient{IngredientID: it.ID, Amount: it.Amount}
	}
	return out
}

// duplicates 返回出现多于一次的 id，按首次重复顺序
func duplicates(ids []uint) []uint {
	seen := make(map[uint]int, len(ids))
	var out []uint
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(want, have []uint) []uint {
	known := make(map[uint]struct{}, len(have))
	for _, id := range have {
		known[id] = struct{}{}
	}
	var out []uint
	for _, id := range want {
		if _, ok := known[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

