package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/foodgram/internal/model"
)

// MembershipRepository (user, recipe) 成员关系：收藏与购物车共用
type MembershipRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) error
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	// ContainedAmong 返回 recipeIDs 中属于 userID 的集合
	ContainedAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type membershipRepository struct {
	db     *gorm.DB
	newRow func(userID, recipeID uint) any
}

func NewFavoriteRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db, newRow: func(u, r uint) any {
		return &model.Favorite{UserID: u, RecipeID: r}
	}}
}

func NewShoppingCartRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db, newRow: func(u, r uint) any {
		return &model.ShoppingCart{UserID: u, RecipeID: r}
	}}
}

func (r *membershipRepository) Add(ctx context.Context, userID, recipeID uint) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(r.newRow(userID, recipeID)).Error)
}

func (r *membershipRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *membershipRepository) ContainedAmong(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
