package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/foodgram/internal/model"
)

// RecipeFilter 列表过滤条件，零值表示不过滤
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

// ShoppingItem 购物清单的一行：按 (name, unit) 汇总的用量
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Total           uint64
}

type RecipeRepository interface {
	// Create 在一个事务内写入菜谱、标签关联与食材用量
	Create(ctx context.Context, recipe *model.Recipe, tagIDs []uint, items []model.RecipeIngredient) error
	// Update 更新基本字段并整体替换标签与食材用量
	Update(ctx context.Context, recipe *model.Recipe, tagIDs []uint, items []model.RecipeIngredient) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, f RecipeFilter, offset, limit int) ([]*model.Recipe, int64, error)
	// ListByAuthor 作者最新的若干菜谱；limit < 0 表示不限
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*model.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	// ShoppingList 汇总 userID 购物车中全部菜谱的食材用量
	ShoppingList(ctx context.Context, userID uint) ([]ShoppingItem, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepository{db: db} }

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe, tagIDs []uint, items []model.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return translate(err)
		}
		return replaceRelations(tx, recipe.ID, tagIDs, items)
	})
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe, tagIDs []uint, items []model.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Recipe{ID: recipe.ID}).
			Select("name", "text", "cooking_time", "image", "updated_at").
			Updates(recipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return replaceRelations(tx, recipe.ID, tagIDs, items)
	})
}

// replaceRelations 先删除旧关联再插入新关联
func replaceRelations(tx *gorm.DB, recipeID uint, tagIDs []uint, items []model.RecipeIngredient) error {
	if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}

	if len(tagIDs) > 0 {
		rows := make([]map[string]interface{}, len(tagIDs))
		for i, id := range tagIDs {
			rows[i] = map[string]interface{}{"recipe_id": recipeID, "tag_id": id}
		}
		if err := tx.Table("recipe_tags").Create(&rows).Error; err != nil {
			return translate(err)
		}
	}

	if len(items) > 0 {
		records := make([]model.RecipeIngredient, len(items))
		for i, it := range items {
			records[i] = model.RecipeIngredient{RecipeID: recipeID, IngredientID: it.IngredientID, Amount: it.Amount}
		}
		if err := tx.Omit(clause.Associations).Create(&records).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		for _, m := range []any{&model.RecipeIngredient{}, &model.Favorite{}, &model.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *recipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var rec model.Recipe
	if err := r.preloaded(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *recipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *recipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Recipe{})
	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy != 0 {
		q = q.Where("recipes.id IN (?)", r.db.Model(&model.Favorite{}).
			Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf != 0 {
		q = q.Where("recipes.id IN (?)", r.db.Model(&model.ShoppingCart{}).
			Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}
	return q
}

func (r *recipeRepository) List(ctx context.Context, f RecipeFilter, offset, limit int) ([]*model.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ids []uint
	if err := r.filtered(ctx, f).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Pluck("recipes.id", &ids).Error; err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []*model.Recipe{}, total, nil
	}
	var res []*model.Recipe
	err := r.preloaded(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC, id DESC").
		Find(&res).Error
	return res, total, err
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*model.Recipe, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC, id DESC")
	if limit >= 0 {
		q = q.Limit(limit)
	}
	var res []*model.Recipe
	err := q.Find(&res).Error
	return res, err
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uint
		Cnt      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS cnt").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Cnt
	}
	return out, nil
}

func (r *recipeRepository) ShoppingList(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	return items, err
}
