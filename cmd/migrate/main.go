package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/migrations"
	"github.com/noah-isme/rajbhasha-api/pkg/config"
	"github.com/noah-isme/rajbhasha-api/pkg/database"
	"github.com/noah-isme/rajbhasha-api/pkg/logger"
)

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-steps n] up|down|version\n")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	migrator, err := database.NewMigrator(database.DSN(cfg.Database), migrations.FS, migrations.Dir)
	if err != nil {
		logr.Fatal("failed to open migrator", zap.Error(err))
	}
	defer migrator.Close() //nolint:errcheck

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down(*steps)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = migrator.Version()
		if err == nil {
			logr.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logr.Fatal("migration failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}
	logr.Info("migration complete", zap.String("command", flag.Arg(0)))
}
