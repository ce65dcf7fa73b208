package model

import "time"

// Recipe 菜谱
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"index:idx_recipe_author;not null"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"type:varchar(256);not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime uint               `gorm:"not null"`
	Image       string             `gorm:"type:varchar(255);not null"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"index"`
	UpdatedAt   time.Time
}

func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient 菜谱中某个食材的用量
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"uniqueIndex:ux_recipe_ingredient;not null"`
	IngredientID uint       `gorm:"uniqueIndex:ux_recipe_ingredient;index;not null"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       uint       `gorm:"not null"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }
