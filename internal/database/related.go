package database

import (
	"context"
	"fmt"
)

// GetProblemBySlug returns the problem with the given slug, or nil when there
// is none.
func (db *DB) GetProblemBySlug(ctx context.Context, slug string) (*Problem, error) {
	items, err := queryEntities[Problem](ctx, db, scanProblem, bySlugSQL(problemTable), slug)
	if err != nil {
		return nil, fmt.Errorf("get problem %q: %w", slug, err)
	}
	return first(items), nil
}

// GetIdeaBySlug returns the idea with the given slug, or nil when there is none.
func (db *DB) GetIdeaBySlug(ctx context.Context, slug string) (*Idea, error) {
	items, err := queryEntities[Idea](ctx, db, scanIdea, bySlugSQL(ideaTable), slug)
	if err != nil {
		return nil, fmt.Errorf("get idea %q: %w", slug, err)
	}
	return first(items), nil
}

// GetProductBySlug returns the product with the given slug, or nil when there
// is none.
func (db *DB) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	items, err := queryEntities[Product](ctx, db, scanProduct, bySlugSQL(productTable), slug)
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	return first(items), nil
}

// RelatedIdeasForProblem returns the ideas linked to a problem, best scored
// first.
func (db *DB) RelatedIdeasForProblem(ctx context.Context, problemID string) ([]Idea, error) {
	query := linkedSQL(ideaTable, "problem_idea", "idea_id", "problem_id", SortScoreDesc)
	items, err := queryEntities[Idea](ctx, db, scanIdea, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("ideas for problem %s: %w", problemID, err)
	}
	return items, nil
}

// RelatedProductsForProblem returns the products linked to a problem, newest
// first.
func (db *DB) RelatedProductsForProblem(ctx context.Context, problemID string) ([]Product, error) {
	query := linkedSQL(productTable, "problem_product", "product_id", "problem_id", SortNewest)
	items, err := queryEntities[Product](ctx, db, scanProduct, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("products for problem %s: %w", problemID, err)
	}
	return items, nil
}

// RelatedProblemsForIdea returns the problems an idea addresses, best scored
// first.
func (db *DB) RelatedProblemsForIdea(ctx context.Context, ideaID string) ([]Problem, error) {
	query := linkedSQL(problemTable, "problem_idea", "problem_id", "idea_id", SortScoreDesc)
	items, err := queryEntities[Problem](ctx, db, scanProblem, query, ideaID)
	if err != nil {
		return nil, fmt.Errorf("problems for idea %s: %w", ideaID, err)
	}
	return items, nil
}

func bySlugSQL(t entityTable) string {
	return fmt.Sprintf(`
		SELECT %s, c.slug, c.name
		FROM %s %s%s
		WHERE %s = ?`,
		t.selectList(), t.table, t.alias, t.categoriesJoin(), t.col("slug"),
	)
}

// linkedSQL selects entities of t reached through the link table, where
// linkTo is the link column holding t's id and linkFrom the one matched
// against the argument.
func linkedSQL(t entityTable, link, linkTo, linkFrom string, sort Sort) string {
	return fmt.Sprintf(`
		SELECT %s, c.slug, c.name
		FROM %s %s
		INNER JOIN %s l ON l.%s = %s%s
		WHERE l.%s = ?
		ORDER BY %s`,
		t.selectList(), t.table, t.alias,
		link, linkTo, t.col("id"), t.categoriesJoin(),
		linkFrom,
		t.orderBy(sort),
	)
}

func queryEntities[T any, P entity[T]](
	ctx context.Context,
	db *DB,
	scan func(rowScanner, P, *nullCategory) error,
	query string,
	args ...any,
) ([]T, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return groupRows[T, P](rows, scan)
}

func first[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}
