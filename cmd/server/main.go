package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/studylog/internal/config"
	"github.com/studylog/internal/db"
	"github.com/studylog/internal/logger"
	"github.com/studylog/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl := logger.Init(cfg.GinMode, logger.Options{
		Dir:        cfg.LogDir,
		Filename:   cfg.LogFilename,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer zl.Sync()

	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		zl.Sugar().Fatalw("failed to initialize database", "error", err)
	}

	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		zl.Sugar().Fatalw("failed to ensure admin account", "error", err)
	}

	if _, err := db.EnsureAuthor(cfg.DefaultAuthorName, cfg.DefaultAuthorPicture); err != nil {
		zl.Sugar().Fatalw("failed to ensure default author", "error", err)
	}

	r := router.SetupRouter(cfg)
	zl.Sugar().Infow("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		zl.Sugar().Fatalw("server exited", "error", err)
	}
}
