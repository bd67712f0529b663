package router

import (
	"github.com/chltlgns/household-ledger/internal/config"
	"github.com/chltlgns/household-ledger/internal/handler"
	"github.com/chltlgns/household-ledger/internal/importer"
	"github.com/chltlgns/household-ledger/internal/middleware"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes. Depending on
// auth.mode the /api group is protected by JWT auth or pinned to the local
// user.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *log.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLog(logger), gin.Recovery())

	api := r.Group("/api")

	protected := api.Group("")
	if cfg.Auth.Mode == config.AuthModeAccount {
		authHandler := handler.NewAuthHandler(db, cfg.Auth.JWTSecret, cfg.Auth.ExpireHours)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		protected.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, db))
	} else {
		protected.Use(middleware.LocalUserMiddleware(db))
	}

	protected.GET("/me", handler.GetMe)

	imp := importer.New(db, logger)
	uploadHandler := handler.NewUploadHandler(imp, cfg.Upload)
	protected.POST("/upload", uploadHandler.Upload)

	txHandler := handler.NewTransactionHandler(db)
	protected.GET("/transactions", txHandler.List)
	protected.PUT("/transactions/:id/category", txHandler.UpdateCategory)
	protected.PUT("/transactions/:id/memo", txHandler.UpdateMemo)
	protected.POST("/transactions/:id/tags", txHandler.AddTag)
	protected.DELETE("/transactions/:id/tags", txHandler.RemoveTag)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	catHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", catHandler.List)
	protected.POST("/categories", catHandler.Create)
	protected.PUT("/categories/:id", catHandler.Update)
	protected.DELETE("/categories/:id", catHandler.Delete)

	protected.POST("/merchants/rule", catHandler.SetMerchantRule)
	protected.DELETE("/merchants/rule", catHandler.DeleteMerchantRule)
	protected.GET("/merchants/rules", catHandler.MerchantRules)
	protected.GET("/merchants", catHandler.Merchants)
	protected.GET("/merchants/uncategorized", catHandler.UncategorizedMerchants)

	tagHandler := handler.NewTagHandler(db)
	protected.GET("/tags", tagHandler.List)
	protected.GET("/tags/autocomplete", tagHandler.Autocomplete)

	reportHandler := handler.NewReportHandler(db)
	protected.GET("/reports/monthly", reportHandler.Monthly)
	protected.GET("/reports/yearly", reportHandler.Yearly)
	protected.GET("/reports/range", reportHandler.Range)
	protected.GET("/reports/tags", reportHandler.Tags)
	protected.GET("/months", reportHandler.Months)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	return r
}
