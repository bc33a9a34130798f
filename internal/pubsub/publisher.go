package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/letieu/ideadb/internal/database"
)

// VotePublisher announces applied votes to whoever renders live scores.
type VotePublisher interface {
	PublishVote(ctx context.Context, event VoteEvent) error
}

// VoteEvent is the payload published after a vote changes a score.
type VoteEvent struct {
	Kind  database.Kind `json:"type"`
	ID    string        `json:"id"`
	Delta int           `json:"value"`
	At    time.Time     `json:"at"`
}

type redisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher publishes vote events on channel.
func NewRedisPublisher(client *redis.Client, channel string) VotePublisher {
	return &redisPublisher{client: client, channel: channel}
}

func (p *redisPublisher) PublishVote(ctx context.Context, event VoteEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}
	return nil
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishVote(context.Context, VoteEvent) error { return nil }
