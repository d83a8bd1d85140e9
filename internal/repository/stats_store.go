package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/model"
)

// Hash fields of a player's stats record.
const (
	fieldTotalGames    = "total_games"
	fieldGamesWon      = "games_won"
	fieldTotalScore    = "total_score"
	fieldCurrentStreak = "current_streak"
	fieldBestStreak    = "best_streak"
)

// StatsStore keeps per-player statistics in a Redis hash. Records never
// expire; they are only replaced by Save.
type StatsStore struct {
	rdb *redis.Client
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(rdb *redis.Client) *StatsStore {
	return &StatsStore{rdb: rdb}
}

// Get returns a player's stats, or ErrNotFound if the player never finished a round.
func (s *StatsStore) Get(ctx context.Context, playerID string) (model.PlayerStats, error) {
	fields, err := s.rdb.HGetAll(ctx, config.CacheKey.PlayerStatsKey(playerID)).Result()
	if err != nil {
		return model.PlayerStats{}, fmt.Errorf("get stats: %w", err)
	}
	if len(fields) == 0 {
		return model.PlayerStats{}, ErrNotFound
	}

	var stats model.PlayerStats
	for name, dst := range map[string]*int{
		fieldTotalGames:    &stats.TotalGames,
		fieldGamesWon:      &stats.GamesWon,
		fieldTotalScore:    &stats.TotalScore,
		fieldCurrentStreak: &stats.CurrentStreak,
		fieldBestStreak:    &stats.BestStreak,
	} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.PlayerStats{}, fmt.Errorf("parse stats field %s: %w", name, err)
		}
		*dst = n
	}
	return stats, nil
}

// Save overwrites a player's stats.
func (s *StatsStore) Save(ctx context.Context, playerID string, stats model.PlayerStats) error {
	err := s.rdb.HSet(ctx, config.CacheKey.PlayerStatsKey(playerID),
		fieldTotalGames, stats.TotalGames,
		fieldGamesWon, stats.GamesWon,
		fieldTotalScore, stats.TotalScore,
		fieldCurrentStreak, stats.CurrentStreak,
		fieldBestStreak, stats.BestStreak,
	).Err()
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}
