package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotVotable is returned for kinds that carry no score.
var ErrNotVotable = errors.New("entity kind is not votable")

var votableTables = map[Kind]string{
	KindProblem: "problems",
	KindIdea:    "ideas",
}

// ApplyVote adds delta to the score of one problem or idea in a single
// statement, so concurrent votes never lose updates. It reports how many rows
// changed; zero means no row has that id and is not an error.
func (db *DB) ApplyVote(ctx context.Context, kind Kind, id string, delta int) (int64, error) {
	table, ok := votableTables[kind]
	if !ok {
		return 0, fmt.Errorf("vote on %q: %w", kind, ErrNotVotable)
	}

	res, err := db.conn.ExecContext(ctx, `UPDATE `+table+` SET score = score + ? WHERE id = ?`, delta, id)
	if err != nil {
		return 0, fmt.Errorf("vote %s %s: %w", kind, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("vote %s %s: rows affected: %w", kind, id, err)
	}
	return affected, nil
}

// Votable reports whether kind carries a score.
func Votable(kind Kind) bool {
	_, ok := votableTables[kind]
	return ok
}
