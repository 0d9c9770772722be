package main

import (
	"fmt"
	"time"

	"github.com/nvallee/timetracker/backend/internal/config"
	"github.com/nvallee/timetracker/backend/internal/models"
	"github.com/nvallee/timetracker/backend/internal/services"
	"github.com/nvallee/timetracker/backend/internal/store"
	"github.com/nvallee/timetracker/backend/internal/utils"
	"github.com/nvallee/timetracker/backend/pkg/logger"
)

// appServices holds the initialized data layer and background jobs.
type appServices struct {
	cfg            *config.Config
	store          *store.Facade
	auditRetention *services.AuditRetention
}

// bootstrap wires the whole application: JWT secret, timezone, storage
// backend (GORM for sqlite/mysql/postgres, raw SQL for on-prem mssql),
// the data facade and the retention scheduler.
func bootstrap(cfg *config.Config) (*appServices, error) {
	utils.SetJWTSecret(cfg.JWT.Secret)

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Server.Timezone, err)
	}

	adapter, err := openAdapter(cfg)
	if err != nil {
		return nil, err
	}

	facade := store.New(adapter, loc)

	auditRetention := services.NewAuditRetention(facade, cfg.Audit.RetentionDays)
	auditRetention.Start()

	return &appServices{
		cfg:            cfg,
		store:          facade,
		auditRetention: auditRetention,
	}, nil
}

func openAdapter(cfg *config.Config) (store.Adapter, error) {
	if cfg.Database.Driver == "mssql" {
		dsn := cfg.Database.DSN
		if dsn == "" {
			dsn = cfg.Database.MSSQLDSN()
		}
		adapter, err := store.OpenMSSQL(dsn,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			time.Duration(cfg.Database.IdleTimeoutSec)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("connect to mssql: %w", err)
		}
		logger.Info().Msg("using on-prem SQL Server backend")
		return adapter, nil
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("using managed database backend")
	return store.NewGormAdapter(models.GetDB()), nil
}

// shutdown gracefully stops background jobs and closes the backend.
func (s *appServices) shutdown() {
	s.auditRetention.Stop()
	if err := s.store.Close(); err != nil {
		logger.Warn().Err(err).Msg("backend close failed")
	}
	logger.Info().Msg("shutdown complete")
}
