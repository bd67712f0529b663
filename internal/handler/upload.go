package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chltlgns/household-ledger/internal/config"
	"github.com/chltlgns/household-ledger/internal/importer"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler 명세서 파일 업로드 및 import
type UploadHandler struct {
	Importer *importer.Importer
	Cfg      config.UploadConfig
}

func NewUploadHandler(imp *importer.Importer, cfg config.UploadConfig) *UploadHandler {
	return &UploadHandler{Importer: imp, Cfg: cfg}
}

// Upload receives a multipart statement file, stores it under the upload
// directory with a random name and runs the import. The response carries the
// number of persisted rows.
func (h *UploadHandler) Upload(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "파일이 없습니다")
		return
	}
	if h.Cfg.MaxSizeMB > 0 && file.Size > int64(h.Cfg.MaxSizeMB)*1024*1024 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			fmt.Sprintf("파일이 너무 큽니다 (최대 %dMB)", h.Cfg.MaxSizeMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	dest := filepath.Join(h.Cfg.Dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "파일 저장 실패")
		return
	}
	if !h.Cfg.KeepFiles {
		defer os.Remove(dest)
	}

	count, err := h.Importer.ImportFile(user.ID, dest)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
				fmt.Sprintf("지원하지 않는 파일 형식입니다: %s", ext))
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "파일 처리 실패")
		return
	}

	util.Success(c, util.Response{
		"imported": count,
		"message":  fmt.Sprintf("%d건의 거래가 추가되었습니다", count),
	})
}
