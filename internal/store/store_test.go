package store

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chltlgns/household-ledger/internal/database"
	"github.com/chltlgns/household-ledger/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "tester", PasswordHash: "-"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, userID uint, name string) models.Category {
	t.Helper()
	cat := models.Category{UserID: userID, Name: name, Color: "#6366f1"}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func createTx(t *testing.T, db *gorm.DB, userID uint, date, merchant string, amount int64) models.Transaction {
	t.Helper()
	tx := models.Transaction{
		UserID:       userID,
		Date:         date,
		Merchant:     merchant,
		Currency:     "KRW",
		KrwAmount:    amount,
		BilledAmount: amount,
	}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}

func TestCategoryForMerchantLongestPatternWins(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	food := createCategory(t, db, user.ID, "식비")
	conv := createCategory(t, db, user.ID, "편의점")

	require.NoError(t, SetMerchantRule(db, user.ID, "GS25", food.ID))
	require.NoError(t, SetMerchantRule(db, user.ID, "GS25 편의점", conv.ID))

	cat, err := CategoryForMerchant(db, user.ID, "GS25 편의점 강남점")
	require.NoError(t, err)
	require.NotNil(t, cat)
	require.Equal(t, conv.ID, cat.ID) // 더 긴 패턴이 이긴다

	cat, err = CategoryForMerchant(db, user.ID, "GS25 역삼점")
	require.NoError(t, err)
	require.NotNil(t, cat)
	require.Equal(t, food.ID, cat.ID)

	cat, err = CategoryForMerchant(db, user.ID, "스타벅스")
	require.NoError(t, err)
	require.Nil(t, cat)
}

func TestCategoryForMerchantIgnoresOtherUsers(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	other := models.User{Username: "other", PasswordHash: "-"}
	require.NoError(t, db.Create(&other).Error)
	cat := createCategory(t, db, other.ID, "식비")
	require.NoError(t, SetMerchantRule(db, other.ID, "GS25", cat.ID))

	got, err := CategoryForMerchant(db, user.ID, "GS25 편의점")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSetMerchantRuleUpsert(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	food := createCategory(t, db, user.ID, "식비")
	cafe := createCategory(t, db, user.ID, "카페")

	require.NoError(t, SetMerchantRule(db, user.ID, "스타벅스", food.ID))
	require.NoError(t, SetMerchantRule(db, user.ID, "스타벅스", cafe.ID))

	rules, err := MerchantRules(db, user.ID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Equal(t, cafe.ID, rules[0].CategoryID)
	require.Equal(t, "카페", rules[0].Category.Name)
}

func TestApplyRuleToExistingBackfills(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	cat := createCategory(t, db, user.ID, "식비")
	createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	createTx(t, db, user.ID, "20251106", "GS25 역삼점", 1200)
	untouched := createTx(t, db, user.ID, "20251107", "쿠팡", 27900)

	affected, err := ApplyRuleToExisting(db, user.ID, "GS25", cat.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), affected)

	var got models.Transaction
	require.NoError(t, db.First(&got, untouched.ID).Error)
	require.Nil(t, got.CategoryID)
}

func TestDeleteMonth(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	createTx(t, db, user.ID, "20251120", "쿠팡", 27900)
	createTx(t, db, user.ID, "20251205", "이마트", 50000)

	deleted, err := DeleteMonth(db, user.ID, 2025, 11)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	var remaining []models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, "20251205", remaining[0].Date)
}

func TestSetMemo(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	tx := createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)

	require.NoError(t, SetMemo(db, tx.ID, "출장 경비"))
	require.NoError(t, SetMemo(db, tx.ID, "회식")) // 덮어쓰기

	var memo models.Memo
	require.NoError(t, db.Where("transaction_id = ?", tx.ID).First(&memo).Error)
	require.Equal(t, "회식", memo.Content)

	// 빈 내용은 메모 삭제
	require.NoError(t, SetMemo(db, tx.ID, ""))
	var count int64
	require.NoError(t, db.Model(&models.Memo{}).
		Where("transaction_id = ?", tx.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestDeleteCategoryKeepsTransactions(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	cat := createCategory(t, db, user.ID, "식비")
	tx := createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	require.NoError(t, db.Model(&tx).Update("category_id", cat.ID).Error)
	require.NoError(t, SetMerchantRule(db, user.ID, "GS25", cat.ID))

	require.NoError(t, DeleteCategory(db, user.ID, cat.ID))

	var got models.Transaction
	require.NoError(t, db.First(&got, tx.ID).Error)
	require.Nil(t, got.CategoryID)

	var rules, cats int64
	require.NoError(t, db.Model(&models.MerchantCategoryRule{}).Count(&rules).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&cats).Error)
	require.Zero(t, rules)
	require.Zero(t, cats)
}

func TestMonthlySummaryGroupsUncategorized(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	cat := createCategory(t, db, user.ID, "식비")
	a := createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	b := createTx(t, db, user.ID, "20251106", "김밥천국", 6000)
	require.NoError(t, db.Model(&a).Update("category_id", cat.ID).Error)
	require.NoError(t, db.Model(&b).Update("category_id", cat.ID).Error)
	createTx(t, db, user.ID, "20251107", "쿠팡", 27900) // 미분류
	createTx(t, db, user.ID, "20251207", "이마트", 50000) // 다른 달

	rows, err := MonthlySummary(db, user.ID, 2025, 11)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// total 내림차순: 미분류 27900 > 식비 9500
	require.Nil(t, rows[0].CategoryID)
	require.Equal(t, int64(27900), rows[0].Total)
	require.NotNil(t, rows[1].CategoryID)
	require.Equal(t, "식비", *rows[1].Name)
	require.Equal(t, int64(9500), rows[1].Total)
	require.Equal(t, int64(2), rows[1].Count)
}

func TestYearlySummary(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	createTx(t, db, user.ID, "20251120", "쿠팡", 27900)
	createTx(t, db, user.ID, "20250105", "이마트", 50000)
	createTx(t, db, user.ID, "20241215", "작년거래", 9999)

	rows, err := YearlySummary(db, user.ID, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "01", rows[0].Month)
	require.Equal(t, int64(50000), rows[0].Total)
	require.Equal(t, "11", rows[1].Month)
	require.Equal(t, int64(31400), rows[1].Total)
}

func TestMonthsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	createTx(t, db, user.ID, "20251120", "쿠팡", 27900)
	createTx(t, db, user.ID, "20250105", "이마트", 50000)

	months, err := Months(db, user.ID)
	require.NoError(t, err)
	require.Equal(t, []YearMonth{{2025, 11}, {2025, 1}}, months)
}

func TestUncategorizedMerchants(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	cat := createCategory(t, db, user.ID, "식비")
	require.NoError(t, SetMerchantRule(db, user.ID, "GS25", cat.ID))
	createTx(t, db, user.ID, "20251105", "GS25 편의점", 3500)
	createTx(t, db, user.ID, "20251106", "쿠팡", 27900)
	createTx(t, db, user.ID, "20251107", "쿠팡", 12000)

	rows, err := UncategorizedMerchants(db, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "쿠팡", rows[0].Merchant)
	require.Equal(t, int64(2), rows[0].TxCount)
	require.Equal(t, int64(39900), rows[0].TotalAmount)
}
