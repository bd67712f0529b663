package handler

import (
	"net/http"

	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// mustUser returns the authenticated user or writes a 401 and returns nil.
func mustUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "로그인이 필요합니다")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "로그인이 필요합니다")
		return nil
	}
	return user
}

// GetMe 현재 로그인한 사용자 정보
func GetMe(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	util.Success(c, util.Response{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
		},
	})
}
