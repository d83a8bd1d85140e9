package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/model"
)

// RoundStore keeps guessing-game rounds in Redis as JSON documents that
// expire after ttl.
type RoundStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRoundStore creates a new RoundStore.
func NewRoundStore(rdb *redis.Client, ttl time.Duration) *RoundStore {
	return &RoundStore{rdb: rdb, ttl: ttl}
}

// Get loads a round. Returns ErrNotFound for unknown or expired rounds.
func (s *RoundStore) Get(ctx context.Context, roundID string) (*model.GameRound, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.RoundKey(roundID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get round: %w", err)
	}

	var round model.GameRound
	if err := json.Unmarshal(data, &round); err != nil {
		return nil, fmt.Errorf("unmarshal round: %w", err)
	}
	return &round, nil
}

// Save writes a round and refreshes its expiry.
func (s *RoundStore) Save(ctx context.Context, round *model.GameRound) error {
	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.RoundKey(round.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	return nil
}
