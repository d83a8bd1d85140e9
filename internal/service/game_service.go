package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/metrics"
	"github.com/stemsi/guesswise-backend/internal/model"
	"github.com/stemsi/guesswise-backend/internal/repository"
	"github.com/stemsi/guesswise-backend/internal/validator"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// GameDeps bundles what GameService needs. Feed and History are optional;
// Random, Clock and Metrics fall back to production defaults.
type GameDeps struct {
	Rounds      RoundStore
	Stats       StatsStore
	Locker      Locker
	Leaderboard LeaderboardSource
	Feed        RoundFeed
	History     HistoryQueue
	Random      RandomSource
	Clock       func() time.Time
	Metrics     *metrics.Metrics
}

// GameService runs guessing-game rounds on top of the pure game engine and
// keeps player statistics in step with finished rounds.
type GameService struct {
	rounds      RoundStore
	stats       StatsStore
	locker      Locker
	leaderboard LeaderboardSource
	feed        RoundFeed
	history     HistoryQueue
	rng         RandomSource
	now         func() time.Time
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewGameService creates a new GameService.
func NewGameService(deps GameDeps, log zerolog.Logger) *GameService {
	s := &GameService{
		rounds:      deps.Rounds,
		stats:       deps.Stats,
		locker:      deps.Locker,
		leaderboard: deps.Leaderboard,
		feed:        deps.Feed,
		history:     deps.History,
		rng:         deps.Random,
		now:         deps.Clock,
		metrics:     deps.Metrics,
		log:         log.With().Str("component", "game_service").Logger(),
	}
	if s.rng == nil {
		s.rng = DefaultRandom
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}
	return s
}

// StartRound creates a new PLAYING round and returns its id with the prompt.
func (s *GameService) StartRound(ctx context.Context) (*model.StartRoundResponse, error) {
	round := NewRound(uuid.New().String(), s.rng, s.now())
	if err := s.rounds.Save(ctx, round); err != nil {
		return nil, fmt.Errorf("save round: %w", err)
	}
	s.metrics.RoundsStarted.Inc()

	return &model.StartRoundResponse{
		RoundID:     round.ID,
		Prompt:      StartPrompt,
		MaxAttempts: round.MaxAttempts,
	}, nil
}

// SubmitGuess evaluates one guess under the round lock. The first accepted
// guess binds the round to its player; guesses from anyone else are rejected.
// A guess that would end the round also takes the player lock before anything
// is written, and from then on the round and the stats are persisted without
// the caller's cancellation, so each finished round is counted exactly once.
func (s *GameService) SubmitGuess(ctx context.Context, roundID, playerID, guess string) (model.GuessResult, error) {
	if !validator.ValidPlayerID(playerID) {
		return model.GuessResult{}, ErrInvalidPlayer
	}

	unlock, err := s.lock(ctx, config.CacheKey.RoundLockKey(roundID))
	if err != nil {
		return model.GuessResult{}, err
	}
	defer unlock()

	current, err := s.rounds.Get(ctx, roundID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.GuessResult{}, ErrRoundNotFound
		}
		return model.GuessResult{}, fmt.Errorf("get round: %w", err)
	}
	if current.PlayerID != "" && current.PlayerID != playerID {
		s.metrics.Guesses.WithLabelValues(metrics.OutcomeNotOwned).Inc()
		return model.GuessResult{}, ErrRoundNotOwned
	}

	round := *current
	result, err := EvaluateGuess(&round, guess, s.now())
	if err != nil {
		s.metrics.Guesses.WithLabelValues(rejectionOutcome(err)).Inc()
		return result, err
	}
	round.PlayerID = playerID

	if !result.Ended {
		if err := s.rounds.Save(ctx, &round); err != nil {
			return model.GuessResult{}, fmt.Errorf("save round: %w", err)
		}
		s.metrics.Guesses.WithLabelValues(metrics.OutcomeHint).Inc()
		return result, nil
	}

	unlockPlayer, err := s.lock(ctx, config.CacheKey.PlayerLockKey(playerID))
	if err != nil {
		return model.GuessResult{}, err
	}
	defer unlockPlayer()

	persistCtx := context.WithoutCancel(ctx)
	if err := s.rounds.Save(persistCtx, &round); err != nil {
		return model.GuessResult{}, fmt.Errorf("save round: %w", err)
	}

	won := round.Status == model.RoundStatusWon
	stats, err := s.recordOutcome(persistCtx, playerID, won, round.Score)
	if err != nil {
		return result, err
	}

	outcome := metrics.OutcomeLost
	if won {
		outcome = metrics.OutcomeWon
	}
	s.metrics.Guesses.WithLabelValues(outcome).Inc()
	s.metrics.RoundsFinished.WithLabelValues(string(round.Status)).Inc()

	s.log.Info().
		Str("round_id", round.ID).
		Str("player_id", playerID).
		Str("status", string(round.Status)).
		Int("attempts", round.AttemptsUsed).
		Int("score", round.Score).
		Msg("Round finished")

	s.announce(persistCtx, model.RoundEvent{
		RoundID:      round.ID,
		PlayerID:     playerID,
		Status:       round.Status,
		AttemptsUsed: round.AttemptsUsed,
		TargetNumber: round.TargetNumber,
		Score:        round.Score,
		Stats:        stats,
		FinishedAt:   *round.FinishedAt,
	})
	return result, nil
}

// GetRound returns a round by id.
func (s *GameService) GetRound(ctx context.Context, roundID string) (*model.GameRound, error) {
	round, err := s.rounds.Get(ctx, roundID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("get round: %w", err)
	}
	return round, nil
}

// GetStats returns a player's stats. Players without finished rounds get a
// zeroed record; nothing is stored for them.
func (s *GameService) GetStats(ctx context.Context, playerID string) (model.PlayerStatsResponse, error) {
	if !validator.ValidPlayerID(playerID) {
		return model.PlayerStatsResponse{}, ErrInvalidPlayer
	}

	stats, err := s.stats.Get(ctx, playerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.PlayerStatsResponse{}, fmt.Errorf("get stats: %w", err)
	}

	return model.PlayerStatsResponse{
		PlayerID:    playerID,
		PlayerStats: stats,
		WinRate:     RatioTo2(100*stats.GamesWon, stats.TotalGames),
	}, nil
}

// Leaderboard returns up to limit entries ordered by descending score.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)

	entries, err := s.leaderboard.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b model.LeaderboardEntry) int {
		return b.Score - a.Score
	})
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}

// Feed subscribes to finished-round events. It returns nil when no feed is
// configured.
func (s *GameService) Feed(ctx context.Context) (<-chan model.RoundEvent, error) {
	if s.feed == nil {
		return nil, nil
	}
	return s.feed.Subscribe(ctx)
}

// ----------------------------------------------------------------
// Internals
// ----------------------------------------------------------------

// recordOutcome applies a finished round to the player's stats. The caller
// holds the player lock.
func (s *GameService) recordOutcome(ctx context.Context, playerID string, won bool, score int) (model.PlayerStats, error) {
	stats, err := s.stats.Get(ctx, playerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.PlayerStats{}, fmt.Errorf("get stats: %w", err)
	}

	stats = ApplyOutcome(stats, won, score)
	if err := s.stats.Save(ctx, playerID, stats); err != nil {
		return model.PlayerStats{}, fmt.Errorf("save stats: %w", err)
	}
	return stats, nil
}

// announce hands a finished round to the feed and the history queue. Both
// are best-effort; failures are logged.
func (s *GameService) announce(ctx context.Context, event model.RoundEvent) {
	if s.feed != nil {
		if err := s.feed.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("round_id", event.RoundID).Msg("Failed to publish round event")
		}
	}
	if s.history != nil {
		if err := s.history.Enqueue(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("round_id", event.RoundID).Msg("Failed to enqueue round history")
		}
	}
}

func (s *GameService) lock(ctx context.Context, key string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrLockTimeout) {
			return nil, ErrLockBusy
		}
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return unlock, nil
}

func rejectionOutcome(err error) string {
	if errors.Is(err, ErrRoundFinished) {
		return metrics.OutcomeFinished
	}
	return metrics.OutcomeInvalid
}
