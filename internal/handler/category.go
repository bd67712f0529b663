package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/store"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler 카테고리 및 가맹점 분류 규칙 관리
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// List 모든 카테고리 조회
func (h *CategoryHandler) List(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).Order("name").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "카테고리 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": categories})
}

type categoryReq struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Create 카테고리 생성
func (h *CategoryHandler) Create(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "잘못된 요청입니다")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := util.ValidateName(req.Name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}
	if err := util.ValidateColor(req.Color); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "색상 형식이 올바르지 않습니다")
		return
	}

	cat := models.Category{UserID: user.ID, Name: req.Name, Color: req.Color}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "이미 존재하는 카테고리입니다")
		return
	}
	util.Success(c, util.Response{"category": cat})
}

// Update 카테고리 이름/색상 수정
func (h *CategoryHandler) Update(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID가 올바르지 않습니다")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "잘못된 요청입니다")
		return
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(req.Name); name != "" {
		if err := util.ValidateName(name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		updates["name"] = name
	}
	if req.Color != "" {
		if err := util.ValidateColor(req.Color); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "색상 형식이 올바르지 않습니다")
			return
		}
		updates["color"] = req.Color
	}
	if len(updates) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "변경할 내용이 없습니다")
		return
	}

	res := h.DB.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Updates(updates)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "저장 실패")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "카테고리를 찾을 수 없습니다")
		return
	}
	util.Success(c, util.Response{"message": "저장되었습니다"})
}

// Delete 카테고리 삭제. 거래는 미분류로 남고 관련 규칙은 함께 삭제된다.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID가 올바르지 않습니다")
		return
	}

	if err := store.DeleteCategory(h.DB, user.ID, uint(id)); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "삭제 실패")
		return
	}
	util.Success(c, util.Response{"message": "삭제되었습니다"})
}

// ---------- 가맹점 분류 규칙 ----------

type merchantRuleReq struct {
	Merchant   string `json:"merchant"`
	CategoryID uint   `json:"category_id"`
}

// SetMerchantRule 규칙 저장 + 기존 거래 일괄 적용
func (h *CategoryHandler) SetMerchantRule(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req merchantRuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "잘못된 요청입니다")
		return
	}
	req.Merchant = strings.TrimSpace(req.Merchant)
	if req.Merchant == "" || req.CategoryID == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "가맹점과 카테고리를 선택하세요")
		return
	}

	affected, err := store.ApplyRuleToExisting(h.DB, user.ID, req.Merchant, req.CategoryID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "규칙 저장 실패")
		return
	}
	util.Success(c, util.Response{"affected": affected})
}

// DeleteMerchantRule 규칙 삭제
func (h *CategoryHandler) DeleteMerchantRule(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req merchantRuleReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Merchant) == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "가맹점을 선택하세요")
		return
	}

	if err := store.DeleteMerchantRule(h.DB, user.ID, strings.TrimSpace(req.Merchant)); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "삭제 실패")
		return
	}
	util.Success(c, util.Response{"message": "삭제되었습니다"})
}

// MerchantRules 규칙 목록
func (h *CategoryHandler) MerchantRules(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	rules, err := store.MerchantRules(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "규칙 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": rules})
}

// Merchants 전체 가맹점 목록 (거래 건수/합계 포함)
func (h *CategoryHandler) Merchants(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	merchants, err := store.Merchants(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "가맹점 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": merchants})
}

// UncategorizedMerchants 분류 규칙이 없는 가맹점 목록
func (h *CategoryHandler) UncategorizedMerchants(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	merchants, err := store.UncategorizedMerchants(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "가맹점 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": merchants})
}
