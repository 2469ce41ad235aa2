// Package db opens the gorm connection, applies the schema and seeds the first user.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/diewo77/go-backoffice/internal/config"
)

// Open connects to the configured database, retrying while it comes up.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}
	driver := DetectDriver(cfg.Driver, dsn)

	logLevel := gormlogger.Silent
	if cfg.Debug {
		logLevel = gormlogger.Info
	}
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}

	dialector := func() gorm.Dialector {
		if driver == DriverPostgres {
			return postgres.Open(dsn)
		}
		return sqlite.Open(dsn)
	}

	retries := max(cfg.ConnRetries, 1)
	var (
		gdb *gorm.DB
		err error
	)
	for i := 0; i < retries; i++ {
		gdb, err = gorm.Open(dialector(), gcfg)
		if err == nil {
			err = gdb.Exec("SELECT 1").Error
		}
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying",
			zap.Int("attempt", i+1), zap.Int("max", retries), zap.Error(err))
		time.Sleep(cfg.RetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if driver == DriverPostgres {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	log.Info("database connected", zap.String("driver", driver), zap.String("dsn", MaskDSN(dsn)))
	return gdb, nil
}

// Ping runs the readiness check query.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Exec("SELECT 1").Error
}

// Close releases the pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
