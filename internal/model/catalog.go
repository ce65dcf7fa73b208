package model

import (
	"strings"

	"gorm.io/gorm"
)

// Tag 标签（参考数据）
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(32);uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string { return "tags" }

// Ingredient 食材目录，(name, measurement_unit) 全局唯一，由 CSV 导入
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"type:varchar(128);uniqueIndex:ux_ingredient_name_unit;index:idx_ingredient_name;not null" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(64);uniqueIndex:ux_ingredient_name_unit;not null" json:"measurement_unit"`
	// SearchName 小写化的名称，前缀搜索用；sqlite 的 LOWER 只处理 ASCII
	SearchName      string `gorm:"type:varchar(128);index:idx_ingredient_search_name;not null;default:''" json:"-"`
}

func (Ingredient) TableName() string { return "ingredients" }

func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.SearchName = strings.ToLower(i.Name)
	return nil
}
