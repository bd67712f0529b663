package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/store"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler 거래 내역 조회/수정 담당
type TransactionHandler struct {
	DB *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{DB: db}
}

// List 거래 내역 조회. year/month/category/tag/search 필터 지원.
func (h *TransactionHandler) List(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	q := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if year, err := strconv.Atoi(c.Query("year")); err == nil && year > 0 {
		q = q.Where("substr(date, 1, 4) = ?", fmt.Sprintf("%04d", year))
	}
	if month, err := strconv.Atoi(c.Query("month")); err == nil && month > 0 {
		q = q.Where("substr(date, 5, 2) = ?", fmt.Sprintf("%02d", month))
	}
	if catID, err := strconv.Atoi(c.Query("category")); err == nil && catID > 0 {
		q = q.Where("category_id = ?", catID)
	}
	if tagID, err := strconv.Atoi(c.Query("tag")); err == nil && tagID > 0 {
		q = q.Where("id IN (SELECT transaction_id FROM transaction_tags WHERE tag_id = ?)", tagID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("merchant LIKE ? OR business_type LIKE ?", like, like)
	}

	var txs []models.Transaction
	if err := q.Preload("Category").Preload("Memo").Preload("Tags").
		Order("date DESC, id DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "거래 조회 실패")
		return
	}

	var total int64
	for i := range txs {
		total += txs[i].BilledAmount
	}

	util.Success(c, util.Response{
		"items": txs,
		"count": len(txs),
		"total": total,
	})
}

// findOwned loads a transaction owned by the user, or writes the error.
func (h *TransactionHandler) findOwned(c *gin.Context, userID uint) *models.Transaction {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID가 올바르지 않습니다")
		return nil
	}

	var tx models.Transaction
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "거래를 찾을 수 없습니다")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "거래 조회 실패")
		}
		return nil
	}
	return &tx
}

type updateCategoryReq struct {
	CategoryID *uint  `json:"category_id"`
	SaveRule   bool   `json:"save_rule"`
	Merchant   string `json:"merchant"`
}

// UpdateCategory 거래 카테고리 수정. save_rule이 참이면 가맹점 규칙도 저장.
func (h *TransactionHandler) UpdateCategory(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	tx := h.findOwned(c, user.ID)
	if tx == nil {
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "잘못된 요청입니다")
		return
	}

	if err := h.DB.Model(tx).Update("category_id", req.CategoryID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "저장 실패")
		return
	}

	if req.SaveRule && req.Merchant != "" && req.CategoryID != nil {
		if err := store.SetMerchantRule(h.DB, user.ID, strings.TrimSpace(req.Merchant), *req.CategoryID); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "규칙 저장 실패")
			return
		}
	}

	util.Success(c, util.Response{"message": "저장되었습니다"})
}

type memoReq struct {
	Content string `json:"content"`
}

// UpdateMemo 거래 메모 저장 (빈 내용이면 삭제)
func (h *TransactionHandler) UpdateMemo(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	tx := h.findOwned(c, user.ID)
	if tx == nil {
		return
	}

	var req memoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "잘못된 요청입니다")
		return
	}

	if err := store.SetMemo(h.DB, tx.ID, strings.TrimSpace(req.Content)); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "메모 저장 실패")
		return
	}

	util.Success(c, util.Response{"message": "저장되었습니다"})
}

type tagReq struct {
	Name  string `json:"name"`
	TagID uint   `json:"tag_id"`
}

// AddTag 거래에 태그 추가. 태그가 없으면 만들고, 있으면 기존 태그를 쓴다.
func (h *TransactionHandler) AddTag(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	tx := h.findOwned(c, user.ID)
	if tx == nil {
		return
	}

	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "태그 이름을 입력하세요")
		return
	}
	name := strings.TrimSpace(req.Name)

	var tag models.Tag
	err := h.DB.Where("user_id = ? AND name = ?", user.ID, name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{UserID: user.ID, Name: name}
		err = h.DB.Create(&tag).Error
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "태그 저장 실패")
		return
	}

	if err := h.DB.Model(tx).Association("Tags").Append(&tag); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "태그 연결 실패")
		return
	}

	util.Success(c, util.Response{"tag": tag})
}

// RemoveTag 거래에서 태그 제거
func (h *TransactionHandler) RemoveTag(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	tx := h.findOwned(c, user.ID)
	if tx == nil {
		return
	}

	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil || req.TagID == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "태그를 선택하세요")
		return
	}

	if err := h.DB.Model(tx).Association("Tags").Delete(&models.Tag{ID: req.TagID}); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "태그 제거 실패")
		return
	}

	util.Success(c, util.Response{"message": "제거되었습니다"})
}

// Delete 거래 한 건 삭제
func (h *TransactionHandler) Delete(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	tx := h.findOwned(c, user.ID)
	if tx == nil {
		return
	}

	if err := h.DB.Delete(tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "삭제 실패")
		return
	}

	util.Success(c, util.Response{"message": "삭제되었습니다"})
}
