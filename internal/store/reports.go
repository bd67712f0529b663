package store

import (
	"fmt"

	"gorm.io/gorm"
)

// CategorySummary is one row of a per-category spending aggregate.
// Uncategorized transactions group under a nil category.
type CategorySummary struct {
	CategoryID *uint   `json:"category_id"`
	Name       *string `json:"name"`
	Color      *string `json:"color"`
	Count      int64   `json:"count"`
	Total      int64   `json:"total"`
}

// MonthTotal is one month's spending within a year.
type MonthTotal struct {
	Month string `json:"month"` // "01".."12"
	Total int64  `json:"total"`
}

// TagSummary aggregates spending per tag.
type TagSummary struct {
	TagID uint   `json:"tag_id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int64  `json:"count"`
	Total int64  `json:"total"`
}

// YearMonth identifies one statement month present in the data.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MerchantStat summarizes all transactions of one merchant.
type MerchantStat struct {
	Merchant     string  `json:"merchant"`
	BusinessType *string `json:"business_type"`
	TxCount      int64   `json:"tx_count"`
	TotalAmount  int64   `json:"total_amount"`
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d%02d", year, month)
}

// MonthlySummary aggregates one month's spending per category.
func MonthlySummary(db *gorm.DB, userID uint, year, month int) ([]CategorySummary, error) {
	return rangeSummaryKeys(db, userID, monthKey(year, month), monthKey(year, month))
}

// RangeSummary aggregates spending per category over an inclusive month
// range.
func RangeSummary(db *gorm.DB, userID uint, startYear, startMonth, endYear, endMonth int) ([]CategorySummary, error) {
	return rangeSummaryKeys(db, userID, monthKey(startYear, startMonth), monthKey(endYear, endMonth))
}

func rangeSummaryKeys(db *gorm.DB, userID uint, start, end string) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := db.Raw(`
		SELECT c.id AS category_id, c.name, c.color,
		       COUNT(t.id) AS count, SUM(t.billed_amount) AS total
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ? AND substr(t.date, 1, 6) >= ? AND substr(t.date, 1, 6) <= ?
		GROUP BY c.id
		ORDER BY total DESC`, userID, start, end).Scan(&rows).Error
	return rows, err
}

// YearlySummary returns per-month totals for one year.
func YearlySummary(db *gorm.DB, userID uint, year int) ([]MonthTotal, error) {
	var rows []MonthTotal
	err := db.Raw(`
		SELECT substr(date, 5, 2) AS month, SUM(billed_amount) AS total
		FROM transactions
		WHERE user_id = ? AND substr(date, 1, 4) = ?
		GROUP BY month
		ORDER BY month`, userID, fmt.Sprintf("%04d", year)).Scan(&rows).Error
	return rows, err
}

// TagSummaries aggregates spending per tag, optionally narrowed to a year
// and/or month (zero means unfiltered).
func TagSummaries(db *gorm.DB, userID uint, year, month int) ([]TagSummary, error) {
	query := `
		SELECT tg.id AS tag_id, tg.name, tg.color,
		       COUNT(DISTINCT t.id) AS count, SUM(t.billed_amount) AS total
		FROM transaction_tags tt
		JOIN tags tg ON tt.tag_id = tg.id
		JOIN transactions t ON tt.transaction_id = t.id
		WHERE t.user_id = ?`
	args := []any{userID}
	if year > 0 {
		query += " AND substr(t.date, 1, 4) = ?"
		args = append(args, fmt.Sprintf("%04d", year))
	}
	if month > 0 {
		query += " AND substr(t.date, 5, 2) = ?"
		args = append(args, fmt.Sprintf("%02d", month))
	}
	query += " GROUP BY tg.id ORDER BY total DESC"

	var rows []TagSummary
	err := db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}

// Months lists every (year, month) present in the user's data, newest first.
func Months(db *gorm.DB, userID uint) ([]YearMonth, error) {
	var raw []struct {
		Year  string
		Month string
	}
	err := db.Raw(`
		SELECT DISTINCT substr(date, 1, 4) AS year, substr(date, 5, 2) AS month
		FROM transactions
		WHERE user_id = ?
		ORDER BY year DESC, month DESC`, userID).Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	months := make([]YearMonth, 0, len(raw))
	for _, r := range raw {
		var ym YearMonth
		fmt.Sscanf(r.Year, "%d", &ym.Year)
		fmt.Sscanf(r.Month, "%d", &ym.Month)
		months = append(months, ym)
	}
	return months, nil
}

// Merchants lists every distinct merchant with transaction count and total.
func Merchants(db *gorm.DB, userID uint) ([]MerchantStat, error) {
	var rows []MerchantStat
	err := db.Raw(`
		SELECT merchant, MAX(business_type) AS business_type,
		       COUNT(*) AS tx_count, SUM(billed_amount) AS total_amount
		FROM transactions
		WHERE user_id = ?
		GROUP BY merchant
		ORDER BY merchant`, userID).Scan(&rows).Error
	return rows, err
}

// UncategorizedMerchants lists merchants not covered by any rule.
func UncategorizedMerchants(db *gorm.DB, userID uint) ([]MerchantStat, error) {
	var rows []MerchantStat
	err := db.Raw(`
		SELECT t.merchant, MAX(t.business_type) AS business_type,
		       COUNT(*) AS tx_count, SUM(t.billed_amount) AS total_amount
		FROM transactions t
		WHERE t.user_id = ? AND NOT EXISTS (
			SELECT 1 FROM merchant_category_rules mcr
			WHERE mcr.user_id = t.user_id
			  AND t.merchant LIKE '%' || mcr.merchant_pattern || '%'
		)
		GROUP BY t.merchant
		ORDER BY t.merchant`, userID).Scan(&rows).Error
	return rows, err
}
