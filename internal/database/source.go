package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceItemPreviewLimit caps the source items shown on a detail page.
const SourceItemPreviewLimit = 10

// SourceItemsForProblem returns the highest scored source items behind a
// problem, newest first among equal scores.
func (db *DB) SourceItemsForProblem(ctx context.Context, problemID string) ([]SourceItem, error) {
	items, err := db.sourceItems(ctx, "problem_id", problemID)
	if err != nil {
		return nil, fmt.Errorf("source items for problem %s: %w", problemID, err)
	}
	return items, nil
}

// SourceItemsForIdea is SourceItemsForProblem for ideas.
func (db *DB) SourceItemsForIdea(ctx context.Context, ideaID string) ([]SourceItem, error) {
	items, err := db.sourceItems(ctx, "idea_id", ideaID)
	if err != nil {
		return nil, fmt.Errorf("source items for idea %s: %w", ideaID, err)
	}
	return items, nil
}

// sourceItems reads the preview list for one parent. parentCol is a fixed
// column name, never user input.
func (db *DB) sourceItems(ctx context.Context, parentCol, parentID string) ([]SourceItem, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, source, source_item_id, title, content, author, url, score, created_at, source_created_at
		FROM source_items
		WHERE `+parentCol+` = ?
		ORDER BY score DESC, source_created_at DESC, id DESC
		LIMIT ?
	`, parentID, SourceItemPreviewLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []SourceItem{}
	for rows.Next() {
		var (
			item            SourceItem
			author          sql.NullString
			url             sql.NullString
			createdAt       dbTime
			sourceCreatedAt dbTime
		)
		if err := rows.Scan(
			&item.ID,
			&item.Source,
			&item.SourceItemID,
			&item.Title,
			&item.Content,
			&author,
			&url,
			&item.Score,
			&createdAt,
			&sourceCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan source item: %w", err)
		}
		item.Author = author.String
		item.URL = url.String
		item.CreatedAt = createdAt.Time
		item.SourceCreatedAt = sourceCreatedAt.ptr()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
