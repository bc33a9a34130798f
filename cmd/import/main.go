package main

import (
	"context"
	"flag"

	"github.com/letieu/ideadb/config"
	"github.com/letieu/ideadb/internal/database"
	"github.com/letieu/ideadb/internal/logger"
	"github.com/letieu/ideadb/internal/reddit"
)

func main() {
	subreddit := flag.String("subreddit", "", "subreddit to import from")
	limit := flag.Int("limit", 25, "number of newest posts")
	comments := flag.Bool("comments", false, "also import top level comments")
	problemID := flag.String("problem", "", "attach items to this problem id")
	ideaID := flag.String("idea", "", "attach items to this idea id")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("ideadb-import", "info").Fatalf("load config: %v", err)
	}
	log := logger.NewLogger("ideadb-import", cfg.Log.Level)

	if *subreddit == "" {
		log.Fatal("-subreddit is required")
	}

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	im := reddit.NewImporter(reddit.NewClient(), db, log)
	target := reddit.Target{ProblemID: *problemID, IdeaID: *ideaID}
	if _, err := im.ImportSubreddit(ctx, *subreddit, *limit, *comments, target); err != nil {
		log.Fatal(err)
	}
}
