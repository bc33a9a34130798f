package reddit

import (
	"context"
	"errors"
	"fmt"

	"github.com/letieu/ideadb/internal/database"
	"github.com/letieu/ideadb/internal/logger"
)

// Store receives imported source items. *database.DB implements it.
type Store interface {
	CreateSourceItem(ctx context.Context, item *database.SourceItem) error
}

// Target names the single problem or idea imported items are attached to.
type Target struct {
	ProblemID string
	IdeaID    string
}

func (t Target) validate() error {
	if (t.ProblemID == "") == (t.IdeaID == "") {
		return errors.New("exactly one of problem or idea id is required")
	}
	return nil
}

type Importer struct {
	client *Client
	store  Store
	log    *logger.Logger
}

func NewImporter(client *Client, store Store, log *logger.Logger) *Importer {
	return &Importer{client: client, store: store, log: log}
}

// ImportStats counts the outcome of one import.
type ImportStats struct {
	Imported int
	Skipped  int
}

// ImportSubreddit stores the newest posts of a subreddit, and optionally
// their comments, as source items of target. Items already stored are
// skipped.
func (im *Importer) ImportSubreddit(ctx context.Context, subreddit string, limit int, withComments bool, target Target) (ImportStats, error) {
	var stats ImportStats
	if err := target.validate(); err != nil {
		return stats, err
	}

	posts, err := im.client.FetchPosts(ctx, subreddit, limit)
	if err != nil {
		return stats, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}

	for _, post := range posts {
		if err := im.save(ctx, post, target, &stats); err != nil {
			return stats, err
		}
		if !withComments {
			continue
		}

		comments, err := im.client.FetchComments(ctx, subreddit, post.ID)
		if err != nil {
			im.log.WithError(err).WithField("post", post.ID).Warn("failed to fetch comments")
			continue
		}
		for _, c := range comments {
			if err := im.save(ctx, c, target, &stats); err != nil {
				return stats, err
			}
		}
	}

	im.log.WithField("subreddit", subreddit).
		WithField("imported", stats.Imported).
		WithField("skipped", stats.Skipped).
		Info("import complete")
	return stats, nil
}

func (im *Importer) save(ctx context.Context, p Post, target Target, stats *ImportStats) error {
	item := p.SourceItem()
	item.ProblemID = target.ProblemID
	item.IdeaID = target.IdeaID

	err := im.store.CreateSourceItem(ctx, &item)
	switch {
	case err == nil:
		stats.Imported++
	case database.IsDuplicateErr(err):
		stats.Skipped++
		im.log.WithField("id", p.ID).Debug("source item exists")
	default:
		return fmt.Errorf("store %s %s: %w", Source, p.ID, err)
	}
	return nil
}
