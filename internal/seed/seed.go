package seed

import (
	"context"
	"fmt"

	"github.com/letieu/ideadb/internal/database"
	"github.com/letieu/ideadb/internal/logger"
)

// Fixtures is a self-contained catalog snapshot. Entity categories are
// referenced by slug; links pair a problem id with an idea or product id.
type Fixtures struct {
	Categories      []database.Category
	Problems        []database.Problem
	Ideas           []database.Idea
	Products        []database.Product
	ProblemIdeas    [][2]string
	ProblemProducts [][2]string
}

// Report counts what a Seed run inserted and skipped.
type Report struct {
	Inserted int
	Skipped  int
}

// Seed inserts f. Rows that already exist are logged and skipped along with
// their category links; any other failure stops the run.
func Seed(ctx context.Context, db *database.DB, f Fixtures, log *logger.Logger) (Report, error) {
	var rep Report

	for _, c := range f.Categories {
		if err := db.CreateCategory(ctx, c); err != nil {
			return rep, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}

	for _, p := range f.Problems {
		if p.Slug == "" {
			p.Slug = CreateSlug(p.Title)
		}
		err := db.CreateProblem(ctx, &p)
		if ok, err := rep.track(log, database.KindProblem, p.ID, err); !ok {
			if err != nil {
				return rep, err
			}
			continue
		}
		if err := linkCategories(ctx, db, database.KindProblem, p.ID, p.Categories); err != nil {
			return rep, err
		}
	}

	for _, i := range f.Ideas {
		if i.Slug == "" {
			i.Slug = CreateSlug(i.Title)
		}
		err := db.CreateIdea(ctx, &i)
		if ok, err := rep.track(log, database.KindIdea, i.ID, err); !ok {
			if err != nil {
				return rep, err
			}
			continue
		}
		if err := linkCategories(ctx, db, database.KindIdea, i.ID, i.Categories); err != nil {
			return rep, err
		}
	}

	for _, p := range f.Products {
		if p.Slug == "" {
			p.Slug = CreateSlug(p.Name)
		}
		err := db.CreateProduct(ctx, &p)
		if ok, err := rep.track(log, database.KindProduct, p.ID, err); !ok {
			if err != nil {
				return rep, err
			}
			continue
		}
		if err := linkCategories(ctx, db, database.KindProduct, p.ID, p.Categories); err != nil {
			return rep, err
		}
	}

	for _, l := range f.ProblemIdeas {
		if err := db.LinkProblemIdea(ctx, l[0], l[1]); err != nil {
			return rep, fmt.Errorf("seed link %s -> %s: %w", l[0], l[1], err)
		}
	}
	for _, l := range f.ProblemProducts {
		if err := db.LinkProblemProduct(ctx, l[0], l[1]); err != nil {
			return rep, fmt.Errorf("seed link %s -> %s: %w", l[0], l[1], err)
		}
	}

	log.WithField("inserted", rep.Inserted).WithField("skipped", rep.Skipped).Info("seeding complete")
	return rep, nil
}

// track classifies an insert result. It returns ok=false with a nil error for
// a duplicate row, and ok=false with the wrapped error for anything else.
func (r *Report) track(log *logger.Logger, kind database.Kind, id string, err error) (bool, error) {
	switch {
	case err == nil:
		r.Inserted++
		return true, nil
	case database.IsDuplicateErr(err):
		r.Skipped++
		log.WithField("kind", kind).WithField("id", id).Info("skipping existing row")
		return false, nil
	default:
		return false, fmt.Errorf("seed %s %s: %w", kind, id, err)
	}
}

func linkCategories(ctx context.Context, db *database.DB, kind database.Kind, id string, cats []database.Category) error {
	for _, c := range cats {
		if err := db.LinkCategory(ctx, kind, id, c.Slug); err != nil {
			return fmt.Errorf("seed %s %s category %s: %w", kind, id, c.Slug, err)
		}
	}
	return nil
}
