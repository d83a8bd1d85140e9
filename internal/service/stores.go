package service

import (
	"context"

	"github.com/stemsi/guesswise-backend/internal/model"
)

// Store contracts implemented by the repository package. Lookups of missing
// records return repository.ErrNotFound.

type RoundStore interface {
	Get(ctx context.Context, roundID string) (*model.GameRound, error)
	Save(ctx context.Context, round *model.GameRound) error
}

type StatsStore interface {
	Get(ctx context.Context, playerID string) (model.PlayerStats, error)
	Save(ctx context.Context, playerID string, stats model.PlayerStats) error
}

type SheetStore interface {
	Get(ctx context.Context, sheetID string) (*model.GradeSheet, error)
	Save(ctx context.Context, sheet *model.GradeSheet) error
}

// Locker grants exclusive access to a key until the returned func is called.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type LeaderboardSource interface {
	List(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// RoundFeed broadcasts finished rounds to live subscribers.
type RoundFeed interface {
	Publish(ctx context.Context, event model.RoundEvent) error
	Subscribe(ctx context.Context) (<-chan model.RoundEvent, error)
}

// HistoryQueue hands finished rounds to the history worker.
type HistoryQueue interface {
	Enqueue(ctx context.Context, event model.RoundEvent) error
}
