package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/models"
)

// coreTables must exist after any migration path.
var coreTables = []string{"users", "clients", "quotes", "alerts", "sequences"}

// Migrate applies the SQL migrations on postgres when enabled, otherwise AutoMigrate.
func Migrate(gdb *gorm.DB, cfg config.DatabaseConfig, log *zap.Logger) error {
	dsn := NormalizeDSN(cfg.DSN)
	if cfg.Migrations && DetectDriver(cfg.Driver, dsn) == DriverPostgres {
		log.Info("running sql migrations", zap.String("dir", cfg.MigrationsDir))
		if err := runSQLMigrations(cfg.MigrationsDir, ToURLDSN(dsn)); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range models.All() {
			if err := gdb.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range coreTables {
		if !gdb.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(dir, dsn string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
