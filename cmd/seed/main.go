package main

import (
	"context"

	"github.com/letieu/ideadb/config"
	"github.com/letieu/ideadb/internal/database"
	"github.com/letieu/ideadb/internal/logger"
	"github.com/letieu/ideadb/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("ideadb-seed", "info").Fatalf("load config: %v", err)
	}
	log := logger.NewLogger("ideadb-seed", cfg.Log.Level)

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if _, err := seed.Seed(ctx, db, seed.Sample(), log); err != nil {
		log.Fatalf("seed: %v", err)
	}
}
