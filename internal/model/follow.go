package model

import (
	"time"
)

// Follow 订阅关系（User 关注 Author）
type Follow struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"index:idx_follow_user;uniqueIndex:ux_follow_pair;not null;check:chk_follow_not_self,user_id <> author_id"`
	AuthorID uint `gorm:"index:idx_follow_author;uniqueIndex:ux_follow_pair;not null"`
	// 复合唯一键，避免重复关注
	// ux_follow_pair = (user_id, author_id)
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
