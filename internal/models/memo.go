package models

import "time"

// Memo is a free-form note attached to exactly one transaction.
type Memo struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID uint      `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
