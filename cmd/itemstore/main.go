package main

import (
	"log"

	"github.com/vbonduro/itemstore/internal/config"
	"github.com/vbonduro/itemstore/internal/db"
	"github.com/vbonduro/itemstore/internal/logging"
	"github.com/vbonduro/itemstore/internal/service"
	"github.com/vbonduro/itemstore/internal/store"
	"github.com/vbonduro/itemstore/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, dialect, err := db.Open(db.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DBDSN,
	})
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("database ready", "driver", dialect)

	itemService := service.NewItemService(store.NewItemStore(database, dialect), logger)
	server := web.NewServer(itemService, database, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
