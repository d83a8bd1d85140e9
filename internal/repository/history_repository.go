package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/guesswise-backend/internal/model"
)

// HistoryRepository records finished rounds and the player snapshots they
// produced.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Stats and leaderboard rows only move forward: a replayed older snapshot
// (fewer total games) never overwrites a newer one.
const (
	upsertStatsSQL = `
		INSERT INTO player_stats AS s
			(player_id, total_games, games_won, total_score, best_streak, current_streak, updated_at)
		SELECT u.player_id, u.total_games, u.games_won, u.total_score, u.best_streak, u.current_streak, NOW()
		FROM UNNEST($1::text[], $2::int[], $3::int[], $4::int[], $5::int[], $6::int[])
			AS u (player_id, total_games, games_won, total_score, best_streak, current_streak)
		ON CONFLICT (player_id) DO UPDATE
		SET total_games = EXCLUDED.total_games,
		    games_won = EXCLUDED.games_won,
		    total_score = EXCLUDED.total_score,
		    best_streak = EXCLUDED.best_streak,
		    current_streak = EXCLUDED.current_streak,
		    updated_at = NOW()
		WHERE s.total_games <= EXCLUDED.total_games`

	upsertLeaderboardSQL = `
		INSERT INTO leaderboard AS l (player_id, player_name, total_score, games_won, win_rate, updated_at)
		SELECT u.player_id, u.player_id, u.total_score, u.games_won, u.win_rate, NOW()
		FROM UNNEST($1::text[], $2::int[], $3::int[], $4::float8[])
			AS u (player_id, total_score, games_won, win_rate)
		ON CONFLICT (player_id) DO UPDATE
		SET total_score = EXCLUDED.total_score,
		    games_won = EXCLUDED.games_won,
		    win_rate = EXCLUDED.win_rate,
		    updated_at = NOW()
		WHERE l.total_score <= EXCLUDED.total_score`
)

// WriteBatch stores a batch in one transaction using UNNEST bulk inserts.
func (r *HistoryRepository) WriteBatch(ctx context.Context, events []model.RoundEvent) error {
	if len(events) == 0 {
		return nil
	}

	n := len(events)
	roundIDs := make([]uuid.UUID, 0, n)
	players := make([]string, 0, n)
	targets := make([]int, 0, n)
	attempts := make([]int, 0, n)
	statuses := make([]string, 0, n)
	scores := make([]int, 0, n)
	finishedAts := make([]time.Time, 0, n)

	for _, e := range events {
		id, err := uuid.Parse(e.RoundID)
		if err != nil {
			return fmt.Errorf("parse round id %q: %w", e.RoundID, err)
		}
		roundIDs = append(roundIDs, id)
		players = append(players, e.PlayerID)
		targets = append(targets, e.TargetNumber)
		attempts = append(attempts, e.AttemptsUsed)
		statuses = append(statuses, string(e.Status))
		scores = append(scores, e.Score)
		finishedAts = append(finishedAts, e.FinishedAt)
	}

	snapshots := latestSnapshots(events)

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO players (id)
			 SELECT DISTINCT p FROM UNNEST($1::text[]) AS p
			 ON CONFLICT (id) DO NOTHING`, players); err != nil {
			return fmt.Errorf("upsert players: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO games (id, player_id, target_number, attempts, status, score, created_at, completed_at)
			 SELECT u.id, u.player_id, u.target_number, u.attempts, u.status, u.score, u.completed_at, u.completed_at
			 FROM UNNEST($1::uuid[], $2::text[], $3::int[], $4::int[], $5::text[], $6::int[], $7::timestamptz[])
			 	AS u (id, player_id, target_number, attempts, status, score, completed_at)
			 ON CONFLICT (id) DO NOTHING`,
			roundIDs, players, targets, attempts, statuses, scores, finishedAts); err != nil {
			return fmt.Errorf("insert games: %w", err)
		}

		if _, err := tx.Exec(ctx, upsertStatsSQL, snapshots.statsArgs()...); err != nil {
			return fmt.Errorf("upsert player stats: %w", err)
		}
		if _, err := tx.Exec(ctx, upsertLeaderboardSQL, snapshots.leaderboardArgs()...); err != nil {
			return fmt.Errorf("upsert leaderboard: %w", err)
		}
		return nil
	})
}

// WriteOne stores a single round; used when a batch fails.
func (r *HistoryRepository) WriteOne(ctx context.Context, event model.RoundEvent) error {
	return r.WriteBatch(ctx, []model.RoundEvent{event})
}

// snapshotSet holds one stats snapshot per player, column-wise.
type snapshotSet struct {
	players []string
	stats   []model.PlayerStats
}

// latestSnapshots keeps the snapshot with the most games per player. A single
// upsert statement may not touch the same row twice.
func latestSnapshots(events []model.RoundEvent) snapshotSet {
	index := make(map[string]int, len(events))
	var set snapshotSet
	for _, e := range events {
		i, seen := index[e.PlayerID]
		if !seen {
			index[e.PlayerID] = len(set.players)
			set.players = append(set.players, e.PlayerID)
			set.stats = append(set.stats, e.Stats)
			continue
		}
		if e.Stats.TotalGames >= set.stats[i].TotalGames {
			set.stats[i] = e.Stats
		}
	}
	return set
}

func (s snapshotSet) statsArgs() []any {
	n := len(s.players)
	total, won, score, best, current := make([]int, n), make([]int, n), make([]int, n), make([]int, n), make([]int, n)
	for i, st := range s.stats {
		total[i], won[i], score[i], best[i], current[i] = st.TotalGames, st.GamesWon, st.TotalScore, st.BestStreak, st.CurrentStreak
	}
	return []any{s.players, total, won, score, best, current}
}

func (s snapshotSet) leaderboardArgs() []any {
	n := len(s.players)
	score, won, rate := make([]int, n), make([]int, n), make([]float64, n)
	for i, st := range s.stats {
		score[i], won[i], rate[i] = st.TotalScore, st.GamesWon, st.WinRate()
	}
	return []any{s.players, score, won, rate}
}
