package models

// MerchantCategoryRule maps a merchant-name substring pattern to a default
// category. The importer applies the longest matching pattern on insert.
type MerchantCategoryRule struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	UserID          uint   `gorm:"uniqueIndex:uniq_user_pattern;not null" json:"-"`
	MerchantPattern string `gorm:"size:128;uniqueIndex:uniq_user_pattern;not null" json:"merchant_pattern"`
	CategoryID      uint   `gorm:"index;not null" json:"category_id"`

	Category Category `json:"category"`
}
