package handler

import (
	"net/http"
	"strings"

	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TagHandler 태그 조회/자동완성
type TagHandler struct {
	DB *gorm.DB
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{DB: db}
}

// List 모든 태그 조회
func (h *TagHandler) List(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var tags []models.Tag
	if err := h.DB.Where("user_id = ?", user.ID).Order("name").Find(&tags).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "태그 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": tags})
}

// Autocomplete 태그 이름 자동완성 (?q=)
func (h *TagHandler) Autocomplete(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	query := strings.TrimSpace(c.Query("q"))

	var tags []models.Tag
	if err := h.DB.Where("user_id = ? AND name LIKE ?", user.ID, "%"+query+"%").
		Order("name").
		Limit(10).
		Find(&tags).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "태그 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": tags})
}
