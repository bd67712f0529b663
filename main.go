package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chltlgns/household-ledger/internal/config"
	"github.com/chltlgns/household-ledger/internal/database"
	"github.com/chltlgns/household-ledger/internal/router"

	"github.com/charmbracelet/log"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(cfg.Log.Level),
	})

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		logger.Fatal("create data dir", "err", err)
	}
	if err := ensureDir(cfg.Upload.Dir); err != nil {
		logger.Fatal("create upload dir", "err", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("init database", "err", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", "err", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", "addr", addr, "auth_mode", cfg.Auth.Mode)
	if err := r.Run(addr); err != nil {
		logger.Fatal("run server", "err", err)
	}
}

func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
