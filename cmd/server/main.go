package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/db"
	"github.com/diewo77/go-backoffice/internal/logger"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if *migrateOnlyFlag || *seedOnlyFlag {
		if err := runOnce(cfg, *migrateOnlyFlag); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	fx.New(
		fx.Supply(cfg),
		AppModule,
	).Run()
}

// runOnce performs a single migrate or seed pass without starting the server.
func runOnce(cfg *config.Config, migrate bool) error {
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Environment: cfg.App.Env, ServiceName: cfg.App.Name})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = db.Close(gdb) }()

	if migrate {
		if err := db.Migrate(gdb, cfg.Database, log); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations completed")
		return nil
	}
	if err := db.Seed(gdb, cfg.Admin, log); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info("seeding completed", zap.String("admin", cfg.Admin.Username))
	return nil
}
