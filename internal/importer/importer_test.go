package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chltlgns/household-ledger/internal/database"
	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/store"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
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

func newTestImporter(db *gorm.DB) *Importer {
	return New(db, log.New(io.Discard))
}

func createUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "tester", PasswordHash: "-"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

type sheetData struct {
	name string
	rows [][]string
}

func writeXLSX(t *testing.T, path string, sheets ...sheetData) {
	t.Helper()
	f := excelize.NewFile()
	for _, s := range sheets {
		_, err := f.NewSheet(s.name)
		require.NoError(t, err)
		for r, row := range s.rows {
			for c, val := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.name, cell, val))
			}
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

var lumpSumRows = [][]string{
	{"■ 국내이용내역(일시불)"},
	{"이용일", "가맹점", "업종", "이용금액"},
	{"20251105", "GS25 편의점", "편의점", "-3,500"},
	{"20251106", "쿠팡", "온라인쇼핑", "27,900"},
	{"", "합계", "", "24,400"},
}

func TestImportXLSXDomestic(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	writeXLSX(t, path, sheetData{name: "일시불내역", rows: lumpSumRows})

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var txs []models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("date").Find(&txs).Error)
	require.Len(t, txs, 2)
	require.Equal(t, "20251105", txs[0].Date)
	require.Equal(t, "GS25 편의점", txs[0].Merchant)
	require.Equal(t, int64(-3500), txs[0].BilledAmount) // 환불은 음수 그대로
	require.Equal(t, "KRW", txs[0].Currency)
	require.False(t, txs[0].IsOverseas)
	require.Equal(t, int64(27900), txs[1].BilledAmount)
}

func TestImportXLSXSkipsOverseasSheets(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	writeXLSX(t, path,
		sheetData{name: "해외이용내역", rows: [][]string{
			{"이용일", "접수일", "가맹점", "원화금액"},
			{"20251101", "20251103", "AMAZON.COM", "37,220"},
		}},
		sheetData{name: "일시불내역", rows: lumpSumRows},
		sheetData{name: "청구요약", rows: [][]string{{"결제예정금액", "61,620"}}},
	)

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var overseas int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("user_id = ? AND is_overseas = ?", user.ID, true).
		Count(&overseas).Error)
	require.Zero(t, overseas) // 워크북 import는 해외 시트를 건너뛴다
}

func TestImportReplacesMonth(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	dir := t.TempDir()
	imp := newTestImporter(db)

	first := filepath.Join(dir, "first.xlsx")
	writeXLSX(t, first, sheetData{name: "일시불내역", rows: [][]string{
		{"이용일", "가맹점", "이용금액"},
		{"20251005", "이마트", "50,000"},
		{"20251105", "GS25 편의점", "3,500"},
		{"20251106", "쿠팡", "27,900"},
	}})
	n, err := imp.ImportFile(user.ID, first)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// 같은 달의 수정본을 다시 올리면 그 달만 통째로 교체된다
	second := filepath.Join(dir, "second.xlsx")
	writeXLSX(t, second, sheetData{name: "일시불내역", rows: [][]string{
		{"이용일", "가맹점", "이용금액"},
		{"20251107", "스타벅스", "6,100"},
	}})
	n, err = imp.ImportFile(user.ID, second)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var txs []models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("date").Find(&txs).Error)
	require.Len(t, txs, 2)
	require.Equal(t, "이마트", txs[0].Merchant) // 다른 달은 그대로
	require.Equal(t, "스타벅스", txs[1].Merchant)
}

func TestImportAppliesMerchantRules(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	cat := models.Category{UserID: user.ID, Name: "식비", Color: "#10b981"}
	require.NoError(t, db.Create(&cat).Error)
	require.NoError(t, store.SetMerchantRule(db, user.ID, "GS25", cat.ID))

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	writeXLSX(t, path, sheetData{name: "일시불내역", rows: lumpSumRows})

	_, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)

	var tx models.Transaction
	require.NoError(t, db.Where("user_id = ? AND merchant = ?", user.ID, "GS25 편의점").
		First(&tx).Error)
	require.NotNil(t, tx.CategoryID)
	require.Equal(t, cat.ID, *tx.CategoryID)

	var other models.Transaction
	require.NoError(t, db.Where("user_id = ? AND merchant = ?", user.ID, "쿠팡").
		First(&other).Error)
	require.Nil(t, other.CategoryID)
}

func TestImportInstallmentBillsPrincipal(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	writeXLSX(t, path, sheetData{name: "할부내역", rows: [][]string{
		{"이용일", "가맹점", "원금", "이용금액", "할부개월"},
		{"20251110", "하이마트", "100,000", "300,000", "3개월"},
	}})

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var tx models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&tx).Error)
	require.Equal(t, int64(100000), tx.BilledAmount)
}

func TestImportCountsOnlyPersistedRows(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	// 특정 가맹점의 insert만 실패시켜 행 단위 실패를 재현한다.
	// RAISE(ABORT)는 해당 문장만 실패시키고 월 트랜잭션은 유지된다.
	require.NoError(t, db.Exec(`
		CREATE TRIGGER reject_merchant BEFORE INSERT ON transactions
		WHEN NEW.merchant = '쿠팡'
		BEGIN SELECT RAISE(ABORT, 'insert blocked'); END`).Error)

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	writeXLSX(t, path, sheetData{name: "일시불내역", rows: [][]string{
		{"이용일", "가맹점", "이용금액"},
		{"20251105", "GS25 편의점", "3,500"},
		{"20251106", "쿠팡", "27,900"},
		{"20251107", "스타벅스", "6,100"},
	}})

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)
	require.Equal(t, 2, n) // 실패한 행은 건너뛰고 성공한 건수만 센다

	var merchants []string
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("user_id = ?", user.ID).Order("date").
		Pluck("merchant", &merchants).Error)
	require.Equal(t, []string{"GS25 편의점", "스타벅스"}, merchants)
}

func TestImportCSVDomestic(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := "국내이용내역(일시불)\n" +
		"이용일,가맹점,이용금액\n" +
		"20251105,GS25 편의점,3500\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var tx models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&tx).Error)
	require.Equal(t, int64(3500), tx.BilledAmount)
	require.False(t, tx.IsOverseas)
}

func TestImportCSVOverseas(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	path := filepath.Join(t.TempDir(), "overseas.csv")
	// 워크북과 달리 CSV의 해외 내역은 import 대상이다
	content := "해외이용내역\n" +
		"이용일,접수일,가맹점,국가,화폐,원화금액\n" +
		"20251101,20251103,AMAZON.COM,US,USD,37220\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var tx models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&tx).Error)
	require.True(t, tx.IsOverseas)
	require.Equal(t, int64(37220), tx.BilledAmount)
	require.Equal(t, "USD", tx.Currency)
	require.NotNil(t, tx.ReceiptDate)
	require.Equal(t, "20251103", *tx.ReceiptDate)
}

func TestImportUnsupportedExtension(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)
	path := filepath.Join(t.TempDir(), "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	n, err := newTestImporter(db).ImportFile(user.ID, path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Zero(t, n)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestImportMissingFile(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db)

	_, err := newTestImporter(db).ImportFile(user.ID, filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}
