package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/model"
)

type leaderboardLister interface {
	List(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// CachedLeaderboard keeps leaderboard reads off Postgres by caching each
// page in Redis for ttl. Cache failures fall through to the source.
type CachedLeaderboard struct {
	rdb    *redis.Client
	source leaderboardLister
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCachedLeaderboard wraps source with a Redis cache.
func NewCachedLeaderboard(rdb *redis.Client, source leaderboardLister, ttl time.Duration, log zerolog.Logger) *CachedLeaderboard {
	return &CachedLeaderboard{
		rdb:    rdb,
		source: source,
		ttl:    ttl,
		log:    log.With().Str("component", "leaderboard_cache").Logger(),
	}
}

func (c *CachedLeaderboard) List(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	key := config.CacheKey.LeaderboardKey(limit)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var entries []model.LeaderboardEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			return entries, nil
		}
	}

	entries, err := c.source.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache leaderboard")
		}
	}
	return entries, nil
}
