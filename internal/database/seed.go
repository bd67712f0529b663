package database

import (
	"errors"
	"fmt"

	"github.com/chltlgns/household-ledger/internal/models"

	"gorm.io/gorm"
)

// 최초 실행 시 생성되는 기본 카테고리
var defaultCategories = []models.Category{
	{Name: "소프트웨어/구독", Color: "#8b5cf6"},
	{Name: "광고", Color: "#f59e0b"},
	{Name: "쇼핑", Color: "#ec4899"},
	{Name: "식비", Color: "#10b981"},
	{Name: "교통", Color: "#3b82f6"},
	{Name: "통신", Color: "#6366f1"},
	{Name: "기타", Color: "#64748b"},
}

// SeedCategories creates the default categories for a user if they do not
// exist yet. Safe to call on every startup and on user creation.
func SeedCategories(db *gorm.DB, userID uint) error {
	for _, c := range defaultCategories {
		var existing models.Category
		err := db.Where("user_id = ? AND name = ?", userID, c.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed categories: %w", err)
		}
		c.UserID = userID
		if err := db.Create(&c).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}
	return nil
}
