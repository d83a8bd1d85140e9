package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/guesswise-backend/internal/model"
)

// LeaderboardRepository reads the curated leaderboard table.
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

// List returns up to limit entries, highest score first.
func (r *LeaderboardRepository) List(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT player_name, total_score, games_won, win_rate
		 FROM leaderboard
		 ORDER BY total_score DESC, player_name ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.Score, &e.GamesWon, &e.WinRate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// StaticLeaderboard serves the built-in sample standings when no database is
// configured.
type StaticLeaderboard struct {
	entries []model.LeaderboardEntry
}

// NewStaticLeaderboard returns the sample standings shipped with the game.
func NewStaticLeaderboard() *StaticLeaderboard {
	return &StaticLeaderboard{entries: []model.LeaderboardEntry{
		{PlayerName: "Alex Champion", Score: 2450, GamesWon: 28, WinRate: 93},
		{PlayerName: "Sarah Genius", Score: 2180, GamesWon: 24, WinRate: 89},
		{PlayerName: "Mike Master", Score: 1950, GamesWon: 22, WinRate: 85},
		{PlayerName: "Lisa Legend", Score: 1720, GamesWon: 19, WinRate: 82},
		{PlayerName: "Tom Tactician", Score: 1580, GamesWon: 17, WinRate: 78},
	}}
}

// List returns a copy of the sample standings, truncated to limit.
func (s *StaticLeaderboard) List(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	n := min(limit, len(s.entries))
	return append([]model.LeaderboardEntry(nil), s.entries[:n]...), nil
}
