package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nvallee/timetracker/backend/internal/config"
	"github.com/nvallee/timetracker/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Init("info")
		logger.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if cfg.Server.Mode == "debug" {
		logLevel = "debug"
	}
	logger.Init(logLevel)

	svc, err := bootstrap(cfg)
	if err != nil {
		logger.Fatalf("Failed to bootstrap: %v", err)
	}
	defer svc.shutdown()

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	registerRoutes(r, svc)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("server starting")
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
