// Package store holds the relational queries shared by the importer and the
// HTTP handlers. Every function takes the *gorm.DB handle explicitly; there
// is no package-level connection state.
package store

import (
	"fmt"

	"github.com/chltlgns/household-ledger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryForMerchant returns the category whose merchant rule matches the
// merchant name as a substring, preferring the longest pattern. Returns
// (nil, nil) when no rule matches.
func CategoryForMerchant(db *gorm.DB, userID uint, merchant string) (*models.Category, error) {
	var cat models.Category
	res := db.Raw(`
		SELECT c.* FROM merchant_category_rules mcr
		JOIN categories c ON mcr.category_id = c.id
		WHERE mcr.user_id = ? AND ? LIKE '%' || mcr.merchant_pattern || '%'
		ORDER BY LENGTH(mcr.merchant_pattern) DESC
		LIMIT 1`, userID, merchant).Scan(&cat)
	if res.Error != nil {
		return nil, fmt.Errorf("category for merchant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &cat, nil
}

// DeleteMonth removes every transaction of the user whose date falls in the
// given (year, month) and returns the number of deleted rows.
func DeleteMonth(db *gorm.DB, userID uint, year, month int) (int64, error) {
	key := fmt.Sprintf("%04d%02d", year, month)
	res := db.Where("user_id = ? AND substr(date, 1, 6) = ?", userID, key).
		Delete(&models.Transaction{})
	return res.RowsAffected, res.Error
}

// SetMerchantRule upserts a merchant pattern → category rule.
func SetMerchantRule(db *gorm.DB, userID uint, pattern string, categoryID uint) error {
	rule := models.MerchantCategoryRule{
		UserID:          userID,
		MerchantPattern: pattern,
		CategoryID:      categoryID,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "merchant_pattern"}},
		DoUpdates: clause.Assignments(map[string]any{"category_id": categoryID}),
	}).Create(&rule).Error
}

// ApplyRuleToExisting stores a merchant rule and back-fills the category on
// every existing transaction whose merchant contains the pattern. Returns the
// number of updated transactions.
func ApplyRuleToExisting(db *gorm.DB, userID uint, pattern string, categoryID uint) (int64, error) {
	if err := SetMerchantRule(db, userID, pattern, categoryID); err != nil {
		return 0, err
	}
	res := db.Model(&models.Transaction{}).
		Where("user_id = ? AND merchant LIKE '%' || ? || '%'", userID, pattern).
		Update("category_id", categoryID)
	return res.RowsAffected, res.Error
}

// DeleteMerchantRule removes a rule by its pattern.
func DeleteMerchantRule(db *gorm.DB, userID uint, pattern string) error {
	return db.Where("user_id = ? AND merchant_pattern = ?", userID, pattern).
		Delete(&models.MerchantCategoryRule{}).Error
}

// MerchantRules lists the user's rules with their categories.
func MerchantRules(db *gorm.DB, userID uint) ([]models.MerchantCategoryRule, error) {
	var rules []models.MerchantCategoryRule
	err := db.Preload("Category").
		Where("user_id = ?", userID).
		Order("merchant_pattern").
		Find(&rules).Error
	return rules, err
}

// SetMemo upserts the memo of a transaction; blank content deletes it.
func SetMemo(db *gorm.DB, transactionID uint, content string) error {
	if content == "" {
		return db.Where("transaction_id = ?", transactionID).
			Delete(&models.Memo{}).Error
	}
	memo := models.Memo{TransactionID: transactionID, Content: content}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoUpdates: clause.Assignments(map[string]any{"content": content}),
	}).Create(&memo).Error
}

// DeleteCategory nulls the category on its transactions, drops dependent
// merchant rules, then removes the category itself. Transactions survive.
func DeleteCategory(db *gorm.DB, userID, categoryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).
			Delete(&models.MerchantCategoryRule{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, categoryID).
			Delete(&models.Category{}).Error
	})
}
