package models

import (
	"fmt"
	"time"

	"github.com/nvallee/timetracker/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the GORM-backed connection pool. The pool is process-wide
// state: call once at startup, tear down with CloseDB at shutdown.
func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	conn, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.IdleTimeoutSec) * time.Second)

	db = conn
	return nil
}

// AutoMigrate creates or updates the schema for all entities.
func AutoMigrate() error {
	return GetDB().AutoMigrate(
		&User{},
		&Project{},
		&Task{},
		&TimeEntry{},
		&Employee{},
		&ProjectEmployee{},
		&Organization{},
		&Department{},
		&AuditLog{},
	)
}

// GetDB returns the shared connection. It panics when called before InitDB
// so misordered bootstrap fails loudly instead of dereferencing nil deep in
// a query.
func GetDB() *gorm.DB {
	if db == nil {
		panic("models: GetDB called before InitDB")
	}
	return db
}

// SetDB replaces the shared connection; used by tests that run against an
// in-memory database.
func SetDB(conn *gorm.DB) {
	db = conn
}

// CloseDB tears down the connection pool.
func CloseDB() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}
