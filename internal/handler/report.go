package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chltlgns/household-ledger/internal/store"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReportHandler 기간별 지출 요약 조회
type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// Monthly 카테고리별 월간 요약. month가 없으면 연간 전체를 집계한다.
func (h *ReportHandler) Monthly(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	now := time.Now()
	year := intQuery(c, "year", now.Year())
	month := intQuery(c, "month", 0)

	var (
		summary []store.CategorySummary
		err     error
	)
	if month > 0 {
		if verr := util.ValidateYearMonth(year, month); verr != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "연/월이 올바르지 않습니다")
			return
		}
		summary, err = store.MonthlySummary(h.DB, user.ID, year, month)
	} else {
		summary, err = store.RangeSummary(h.DB, user.ID, year, 1, year, 12)
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "요약 조회 실패")
		return
	}

	var total int64
	for _, s := range summary {
		total += s.Total
	}

	util.Success(c, util.Response{
		"year":        year,
		"month":       month,
		"by_category": summary,
		"total":       total,
	})
}

// Yearly 연간 월별 지출 추이
func (h *ReportHandler) Yearly(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	year := intQuery(c, "year", time.Now().Year())
	monthly, err := store.YearlySummary(h.DB, user.ID, year)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "요약 조회 실패")
		return
	}
	util.Success(c, util.Response{"year": year, "monthly": monthly})
}

// Range 시작~종료 연월 범위의 카테고리별 요약 (대시보드용)
func (h *ReportHandler) Range(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	now := time.Now()
	startYear := intQuery(c, "start_year", now.Year())
	startMonth := intQuery(c, "start_month", int(now.Month()))
	endYear := intQuery(c, "end_year", now.Year())
	endMonth := intQuery(c, "end_month", int(now.Month()))

	if util.ValidateYearMonth(startYear, startMonth) != nil ||
		util.ValidateYearMonth(endYear, endMonth) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "연/월이 올바르지 않습니다")
		return
	}

	summary, err := store.RangeSummary(h.DB, user.ID, startYear, startMonth, endYear, endMonth)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "요약 조회 실패")
		return
	}

	var total int64
	for _, s := range summary {
		total += s.Total
	}

	util.Success(c, util.Response{
		"by_category": summary,
		"total":       total,
	})
}

// Tags 태그별 지출 요약 (year/month 선택)
func (h *ReportHandler) Tags(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	year := intQuery(c, "year", 0)
	month := intQuery(c, "month", 0)

	summary, err := store.TagSummaries(h.DB, user.ID, year, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "요약 조회 실패")
		return
	}
	util.Success(c, util.Response{"items": summary})
}

// Months 데이터가 존재하는 연/월 목록
func (h *ReportHandler) Months(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	months, err := store.Months(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "조회 실패")
		return
	}
	util.Success(c, util.Response{"items": months})
}
