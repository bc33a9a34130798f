package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// ListProblems returns one page of problems matching q.
func (db *DB) ListProblems(ctx context.Context, q ListQuery) (*Page[Problem], error) {
	return listEntities[Problem](ctx, db, problemTable, q.normalize(db.defaults.Problems), scanProblem)
}

// ListIdeas returns one page of ideas matching q.
func (db *DB) ListIdeas(ctx context.Context, q ListQuery) (*Page[Idea], error) {
	return listEntities[Idea](ctx, db, ideaTable, q.normalize(db.defaults.Ideas), scanIdea)
}

// ListProducts returns one page of products matching q. Score sorts fall back
// to creation time since products are not scored.
func (db *DB) ListProducts(ctx context.Context, q ListQuery) (*Page[Product], error) {
	return listEntities[Product](ctx, db, productTable, q.normalize(db.defaults.Products), scanProduct)
}

// GetCategories returns every category ordered by display name.
func (db *DB) GetCategories(ctx context.Context) ([]Category, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT slug, name FROM categories ORDER BY name, slug`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// listEntities runs the count and the page query side by side. They are not
// read in one snapshot, so a concurrent write may shift a page boundary by a
// row.
func listEntities[T any, P entity[T]](
	ctx context.Context,
	db *DB,
	t entityTable,
	q ListQuery,
	scan func(rowScanner, P, *nullCategory) error,
) (*Page[T], error) {
	limit := db.pageSize
	where, args := t.where(q)

	var (
		total int
		data  = []T{}
	)

	// A page whose offset does not fit in an int is past any possible total.
	pastEnd := q.Page-1 > math.MaxInt/limit
	offset := 0
	if !pastEnd {
		offset = (q.Page - 1) * limit
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := db.conn.QueryRowContext(gctx, t.countSQL(where), args...).Scan(&total); err != nil {
			return fmt.Errorf("count %s: %w", t.table, err)
		}
		return nil
	})

	if !pastEnd {
		g.Go(func() error {
			pageArgs := make([]any, 0, len(args)+2)
			pageArgs = append(pageArgs, args...)
			pageArgs = append(pageArgs, limit, offset)

			rows, err := db.conn.QueryContext(gctx, t.pageSQL(where, q.Sort), pageArgs...)
			if err != nil {
				return fmt.Errorf("list %s: %w", t.table, err)
			}
			defer rows.Close()

			data, err = groupRows[T, P](rows, scan)
			if err != nil {
				return fmt.Errorf("list %s: %w", t.table, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page[T]{Data: data, Metadata: newMetadata(total, q.Page, limit)}, nil
}

func scanProblem(s rowScanner, p *Problem, cat *nullCategory) error {
	var (
		painPoints sql.NullString
		createdAt  dbTime
	)
	if err := s.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Description,
		&painPoints,
		&p.Score,
		&createdAt,
		&cat.Slug,
		&cat.Name,
	); err != nil {
		return fmt.Errorf("scan problem: %w", err)
	}
	p.PainPoints = painPoints.String
	p.CreatedAt = createdAt.Time
	return nil
}

func scanIdea(s rowScanner, i *Idea, cat *nullCategory) error {
	var (
		features  sql.NullString
		createdAt dbTime
	)
	if err := s.Scan(
		&i.ID,
		&i.Slug,
		&i.Title,
		&i.Description,
		&features,
		&i.Score,
		&createdAt,
		&cat.Slug,
		&cat.Name,
	); err != nil {
		return fmt.Errorf("scan idea: %w", err)
	}
	i.Features = features.String
	i.CreatedAt = createdAt.Time
	return nil
}

func scanProduct(s rowScanner, p *Product, cat *nullCategory) error {
	var (
		url       sql.NullString
		createdAt dbTime
	)
	if err := s.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&url,
		&createdAt,
		&cat.Slug,
		&cat.Name,
	); err != nil {
		return fmt.Errorf("scan product: %w", err)
	}
	p.URL = url.String
	p.CreatedAt = createdAt.Time
	return nil
}
