package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 거래 내역 내려받기 (CSV/XLSX)
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"이용일", "가맹점", "업종", "통화", "청구금액", "해외", "카테고리"}

func (h *ExportHandler) load(c *gin.Context, userID uint) ([]models.Transaction, bool) {
	var txs []models.Transaction
	if err := h.DB.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "거래 조회 실패")
		return nil, false
	}
	return txs, true
}

func exportRow(tx *models.Transaction) []string {
	businessType := ""
	if tx.BusinessType != nil {
		businessType = *tx.BusinessType
	}
	overseas := ""
	if tx.IsOverseas {
		overseas = "Y"
	}
	category := ""
	if tx.Category != nil {
		category = tx.Category.Name
	}
	return []string{
		tx.Date,
		tx.Merchant,
		businessType,
		tx.Currency,
		strconv.FormatInt(tx.BilledAmount, 10),
		overseas,
		category,
	}
}

// CSV 거래 내역을 CSV로 내려받기
func (h *ExportHandler) CSV(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	txs, ok := h.load(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM (Excel에서 한글이 깨지지 않도록)
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range txs {
		writer.Write(exportRow(&txs[i]))
	}
}

// XLSX 거래 내역을 XLSX로 내려받기
func (h *ExportHandler) XLSX(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	txs, ok := h.load(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "거래내역"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "시트 생성 실패")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for idx := range txs {
		row := exportRow(&txs[idx])
		for col, v := range row {
			cell := fmt.Sprintf("%c%d", 'A'+col, idx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "G", 10)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "내보내기 실패")
	}
}
