// @title BioKuiz API
// @version 1.0
// @description Biology quiz backend: study materials, graded quizzes and teacher reports.

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"biokuiz/internal/app"
	"biokuiz/internal/config"
	"biokuiz/pkg/logger"
	"context"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on start even in release mode")
	seed := flag.Bool("seed", false, "load sample content from the seed file into empty tables")
	seedFile := flag.String("seed-file", "configs/seed.yaml", "seed file used with -seed")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly || *seed
	cfg.MigrateOnly = *migrateOnly
	cfg.Seed = *seed

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.Seed {
		if err := application.Seed(context.Background(), *seedFile); err != nil {
			logger.Log.Fatal("Seeding failed", zap.Error(err))
		}
	}

	if cfg.MigrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		return
	}

	application.Run()
}
