package main

import (
	"context"
	"log"

	"github.com/letieu/ideadb/config"
	"github.com/letieu/ideadb/internal/database"
)

func main() {
	ctx := context.Background()

	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewDB(ctx, cnf)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	log.Println("DONE")
}
