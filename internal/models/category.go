package models

import "time"

// Category represents a spending category.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:uniq_user_category;not null" json:"-"`
	Name      string    `gorm:"size:64;uniqueIndex:uniq_user_category;not null" json:"name"`
	Color     string    `gorm:"size:16;not null;default:'#6366f1'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
