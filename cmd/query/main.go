package main

import (
	"context"
	"flag"
	"log"

	"github.com/k0kubun/pp/v3"
	"github.com/letieu/ideadb/config"
	"github.com/letieu/ideadb/internal/database"
)

func main() {
	kind := flag.String("kind", "problem", "problem, idea or product")
	slug := flag.String("slug", "", "show one entry instead of a listing")
	search := flag.String("q", "", "search term")
	category := flag.String("category", "", "category slug")
	sort := flag.String("sort", "", "newest, oldest, score_desc or score_asc")
	page := flag.String("page", "1", "page number")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	q := database.ListQuery{
		Search:   *search,
		Category: *category,
		Sort:     database.ParseSort(*sort),
		Page:     database.ParsePage(*page),
	}

	var res any
	switch database.Kind(*kind) {
	case database.KindProblem:
		if *slug != "" {
			res, err = db.GetProblemBySlug(ctx, *slug)
		} else {
			res, err = db.ListProblems(ctx, q)
		}
	case database.KindIdea:
		if *slug != "" {
			res, err = db.GetIdeaBySlug(ctx, *slug)
		} else {
			res, err = db.ListIdeas(ctx, q)
		}
	case database.KindProduct:
		if *slug != "" {
			res, err = db.GetProductBySlug(ctx, *slug)
		} else {
			res, err = db.ListProducts(ctx, q)
		}
	default:
		log.Fatalf("unknown kind %q", *kind)
	}
	if err != nil {
		log.Fatal(err)
	}

	pp.Print(res)
}
