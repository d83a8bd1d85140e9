package service

import (
	"context"
	"sync"

	"github.com/stemsi/guesswise-backend/internal/model"
)

// FakeHistoryQueue records enqueued events.
type FakeHistoryQueue struct {
	mu     sync.Mutex
	events []model.RoundEvent
	Err    error
}

func (f *FakeHistoryQueue) Enqueue(_ context.Context, event model.RoundEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *FakeHistoryQueue) Events() []model.RoundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.RoundEvent(nil), f.events...)
}

// FakeLocker delegates to LockFunc.
type FakeLocker struct {
	LockFunc func(ctx context.Context, key string) (func(), error)
}

func (f *FakeLocker) Lock(ctx context.Context, key string) (func(), error) {
	return f.LockFunc(ctx, key)
}

// FakeStatsStore delegates to its Func fields.
type FakeStatsStore struct {
	GetFunc  func(ctx context.Context, playerID string) (model.PlayerStats, error)
	SaveFunc func(ctx context.Context, playerID string, stats model.PlayerStats) error
}

func (f *FakeStatsStore) Get(ctx context.Context, playerID string) (model.PlayerStats, error) {
	return f.GetFunc(ctx, playerID)
}

func (f *FakeStatsStore) Save(ctx context.Context, playerID string, stats model.PlayerStats) error {
	return f.SaveFunc(ctx, playerID, stats)
}

// FakeLeaderboard returns Entries or Err.
type FakeLeaderboard struct {
	Entries   []model.LeaderboardEntry
	Err       error
	LastLimit int
}

func (f *FakeLeaderboard) List(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	f.LastLimit = limit
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]model.LeaderboardEntry(nil), f.Entries...), nil
}
