package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/model"
)

// HistoryQueue hands finished rounds to the history worker through a Redis list.
type HistoryQueue struct {
	rdb *redis.Client
}

// NewHistoryQueue creates a new HistoryQueue.
func NewHistoryQueue(rdb *redis.Client) *HistoryQueue {
	return &HistoryQueue{rdb: rdb}
}

// Enqueue appends a finished round to the persistence queue.
func (q *HistoryQueue) Enqueue(ctx context.Context, event model.RoundEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal round event: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.PersistRoundsQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue round event: %w", err)
	}
	return nil
}
