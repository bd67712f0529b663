package models

// Tag is a user-defined label attached to transactions (many-to-many).
type Tag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex:uniq_user_tag;not null" json:"-"`
	Name   string `gorm:"size:64;uniqueIndex:uniq_user_tag;not null" json:"name"`
	Color  string `gorm:"size:16;not null;default:'#10b981'" json:"color"`
}
