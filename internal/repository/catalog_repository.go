package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

type TagRepository interface {
	List(ctx context.Context) ([]*model.Tag, error)
	GetByID(ctx context.Context, id uint) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*model.Tag, error)
	// GetOrCreate 返回 created=false 表示同名标签已存在
	GetOrCreate(ctx context.Context, name, slug string) (created bool, err error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	var res []*model.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&res).Error
	return res, err
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.Tag, error) {
	var res []*model.Tag
	if len(ids) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name, slug string) (bool, error) {
	return getOrCreate(r.db.WithContext(ctx), &model.Tag{Name: name, Slug: slug}, "name = ?", name)
}

type IngredientRepository interface {
	// Search 按名称前缀（不区分大小写）查找
	Search(ctx context.Context, prefix string) ([]*model.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*model.Ingredient, error)
	GetOrCreate(ctx context.Context, name, unit string) (created bool, err error)
	// DeleteAll 清空目录及引用它的菜谱用量
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ingredientRepository struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Search(ctx context.Context, prefix string) ([]*model.Ingredient, error) {
	q := r.db.WithContext(ctx).Order("name")
	if prefix != "" {
		q = q.Where(`search_name LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}
	var res []*model.Ingredient
	err := q.Find(&res).Error
	return res, err
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ing, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.Ingredient, error) {
	var res []*model.Ingredient
	if len(ids) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *ingredientRepository) GetOrCreate(ctx context.Context, name, unit string) (bool, error) {
	return getOrCreate(r.db.WithContext(ctx),
		&model.Ingredient{Name: name, MeasurementUnit: unit},
		"name = ? AND measurement_unit = ?", name, unit)
}

func (r *ingredientRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		res := tx.Where("1 = 1").Delete(&model.Ingredient{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

func (r *ingredientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ingredient{}).Count(&n).Error
	return n, err
}

// getOrCreate 查不到才插入；并发插入撞唯一索引时视为已存在
func getOrCreate(db *gorm.DB, row any, query string, args ...any) (bool, error) {
	var cnt int64
	if err := db.Model(row).Where(query, args...).Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt > 0 {
		return false, nil
	}
	err := translate(db.Create(row).Error)
	if errors.Is(err, ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
