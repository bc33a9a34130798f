package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// The writes below belong to ingestion and seeding. Catalog reads and votes
// never call them.

func (db *DB) CreateCategory(ctx context.Context, c Category) error {
	_, err := db.conn.ExecContext(ctx, `INSERT OR IGNORE INTO categories (slug, name) VALUES (?, ?)`, c.Slug, c.Name)
	return err
}

func (db *DB) CreateProblem(ctx context.Context, p *Problem) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO problems (id, slug, title, description, pain_points, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Title, p.Description, nullString(p.PainPoints), p.Score, formatTime(p.CreatedAt),
	)
	return err
}

func (db *DB) CreateIdea(ctx context.Context, i *Idea) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO ideas (id, slug, title, description, features, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Slug, i.Title, i.Description, nullString(i.Features), i.Score, formatTime(i.CreatedAt),
	)
	return err
}

func (db *DB) CreateProduct(ctx context.Context, p *Product) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO products (id, slug, name, description, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Name, p.Description, nullString(p.URL), formatTime(p.CreatedAt),
	)
	return err
}

// LinkCategory records category membership. Existing memberships are left
// alone.
func (db *DB) LinkCategory(ctx context.Context, kind Kind, entityID, categorySlug string) error {
	var t entityTable
	switch kind {
	case KindProblem:
		t = problemTable
	case KindIdea:
		t = ideaTable
	case KindProduct:
		t = productTable
	default:
		return fmt.Errorf("link category: unknown kind %q", kind)
	}
	_, err := db.conn.ExecContext(ctx,
		fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, category_slug) VALUES (?, ?)`, t.junction, t.fk),
		entityID, categorySlug,
	)
	return err
}

func (db *DB) LinkProblemIdea(ctx context.Context, problemID, ideaID string) error {
	_, err := db.conn.ExecContext(ctx, `INSERT OR IGNORE INTO problem_idea (problem_id, idea_id) VALUES (?, ?)`, problemID, ideaID)
	return err
}

func (db *DB) LinkProblemProduct(ctx context.Context, problemID, productID string) error {
	_, err := db.conn.ExecContext(ctx, `INSERT OR IGNORE INTO problem_product (problem_id, product_id) VALUES (?, ?)`, problemID, productID)
	return err
}

func (db *DB) CreateSourceItem(ctx context.Context, item *SourceItem) error {
	var sourceCreatedAt any
	if item.SourceCreatedAt != nil {
		sourceCreatedAt = formatTime(*item.SourceCreatedAt)
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO source_items (source, source_item_id, title, content, author, url, score, created_at, source_created_at, problem_id, idea_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Source,
		item.SourceItemID,
		item.Title,
		item.Content,
		nullString(item.Author),
		nullString(item.URL),
		item.Score,
		formatTime(item.CreatedAt),
		sourceCreatedAt,
		nullString(item.ProblemID),
		nullString(item.IdeaID),
	)
	if err != nil {
		return err
	}

	item.ID, err = res.LastInsertId()
	return err
}

// IsDuplicateErr reports whether err is a UNIQUE or PRIMARY KEY violation.
// NOT NULL, CHECK and foreign key failures are not duplicates.
// go-sqlite3 exposes a typed error; libsql only carries the SQLite message.
func IsDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLITE_CONSTRAINT_UNIQUE") ||
		strings.Contains(msg, "SQLITE_CONSTRAINT_PRIMARYKEY")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
