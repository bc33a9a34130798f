package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

// newTestDB opens a fresh SQLite file with the catalog schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, "sqlite3", SQLiteDSN(filepath.Join(t.TempDir(), "catalog.db")), DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// SQLite serialises writers anyway; one connection keeps the busy
	// handler out of the picture.
	db.conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(ctx))
	return db
}

type fixture struct {
	t  *testing.T
	db *DB
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: newTestDB(t)}
}

func (f *fixture) category(slug, name string) {
	f.t.Helper()
	require.NoError(f.t, f.db.CreateCategory(context.Background(), Category{Slug: slug, Name: name}))
}

func (f *fixture) problem(p Problem, categories ...string) {
	f.t.Helper()
	ctx := context.Background()
	require.NoError(f.t, f.db.CreateProblem(ctx, &p))
	for _, c := range categories {
		require.NoError(f.t, f.db.LinkCategory(ctx, KindProblem, p.ID, c))
	}
}

func (f *fixture) idea(i Idea, categories ...string) {
	f.t.Helper()
	ctx := context.Background()
	require.NoError(f.t, f.db.CreateIdea(ctx, &i))
	for _, c := range categories {
		require.NoError(f.t, f.db.LinkCategory(ctx, KindIdea, i.ID, c))
	}
}

func (f *fixture) product(p Product, categories ...string) {
	f.t.Helper()
	ctx := context.Background()
	require.NoError(f.t, f.db.CreateProduct(ctx, &p))
	for _, c := range categories {
		require.NoError(f.t, f.db.LinkCategory(ctx, KindProduct, p.ID, c))
	}
}

func (f *fixture) sourceItem(item SourceItem) {
	f.t.Helper()
	require.NoError(f.t, f.db.CreateSourceItem(context.Background(), &item))
}

func problemIDs(items []Problem) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func ideaIDs(items []Idea) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func productIDs(items []Product) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}
