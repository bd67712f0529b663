package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chltlgns/household-ledger/internal/database"
	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware JWT를 검증하고 context에 현재 사용자를 넣는다.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) 쿼리 파라미터 ?token=xxx (파일 다운로드 등 헤더를 못 쓰는 경우)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "로그인이 필요합니다")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "로그인이 만료되었습니다")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "사용자를 찾을 수 없습니다")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "사용자 조회 실패")
			}
			c.Abort()
			return
		}

		c.Set("currentUser", &user)
		c.Next()
	}
}

// LocalUserMiddleware runs every request as the reserved local account
// (auth mode "none"). The account and its default categories are created on
// first use.
func LocalUserMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		err := db.Where("username = ?", models.LocalUsername).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Username:     models.LocalUsername,
				PasswordHash: "-", // 로그인 불가 계정
				DisplayName:  "로컬 사용자",
			}
			if err = db.Create(&user).Error; err == nil {
				err = database.SeedCategories(db, user.ID)
			}
		}
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "로컬 사용자 초기화 실패")
			c.Abort()
			return
		}

		c.Set("currentUser", &user)
		c.Next()
	}
}
