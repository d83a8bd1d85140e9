package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRoundStore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRoundStore(rdb, time.Minute)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	round := &model.GameRound{
		ID:           "r1",
		TargetNumber: 42,
		AttemptsUsed: 3,
		MaxAttempts:  7,
		Status:       model.RoundStatusWon,
		Score:        80,
		PlayerID:     "p1",
		StartedAt:    finished.Add(-time.Minute),
		FinishedAt:   &finished,
	}
	require.NoError(t, store.Save(ctx, round))
	assert.True(t, mr.Exists(config.CacheKey.RoundKey("r1")))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, round, got)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsStore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewStatsStore(rdb)
	ctx := context.Background()

	_, err := store.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	stats := model.PlayerStats{TotalGames: 4, GamesWon: 3, TotalScore: 250, CurrentStreak: 2, BestStreak: 3}
	require.NoError(t, store.Save(ctx, "p1", stats))

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, stats, got)
	assert.Equal(t, "250", mr.HGet(config.CacheKey.PlayerStatsKey("p1"), "total_score"))

	mr.FastForward(365 * 24 * time.Hour)
	_, err = store.Get(ctx, "p1")
	assert.NoError(t, err, "stats never expire")
}

func TestStatsStore_CorruptField(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewStatsStore(rdb)

	mr.HSet(config.CacheKey.PlayerStatsKey("p1"), "total_games", "lots")
	_, err := store.Get(context.Background(), "p1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSheetStore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewSheetStore(rdb, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	sheet := &model.GradeSheet{
		ID:            "s1",
		Subjects:      []model.Subject{{ID: 1, Name: "Mathematics", Marks: 88}},
		NextSubjectID: 1,
		Result:        &model.GradeResult{TotalMarks: 88, AveragePercentage: 88, Grade: "A", GradeColor: "bg-green-400"},
		UpdatedAt:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, sheet))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sheet, got)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisLocker(t *testing.T) {
	_, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, time.Minute)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "lock:round:r1")
	require.NoError(t, err)

	other, err := locker.Lock(ctx, "lock:round:r2")
	require.NoError(t, err, "different keys do not contend")
	other()

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "lock:round:r1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	again, err := locker.Lock(ctx, "lock:round:r1")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_ReleaseKeepsForeignLease(t *testing.T) {
	mr, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, time.Second)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "lock:player:p1")
	require.NoError(t, err)

	// The lease expired and another holder took the key.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:player:p1", "someone-else"))

	unlock()
	got, err := mr.Get("lock:player:p1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_Timeout(t *testing.T) {
	mr, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, time.Minute)

	require.NoError(t, mr.Set("lock:sheet:s1", "held"))
	start := time.Now()
	_, err := locker.Lock(context.Background(), "lock:sheet:s1")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.GreaterOrEqual(t, time.Since(start), lockMaxWait)
}

func TestHistoryQueue_Enqueue(t *testing.T) {
	mr, rdb := newTestRedis(t)
	queue := NewHistoryQueue(rdb)

	event := model.RoundEvent{RoundID: "r1", PlayerID: "p1", Status: model.RoundStatusLost, AttemptsUsed: 7}
	require.NoError(t, queue.Enqueue(context.Background(), event))

	items, err := mr.List(config.WorkerKey.PersistRoundsQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got model.RoundEvent
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, event, got)
}

func TestRedisRoundFeed(t *testing.T) {
	_, rdb := newTestRedis(t)
	feed := NewRedisRoundFeed(rdb, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	events, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	event := model.RoundEvent{RoundID: "r1", PlayerID: "p1", Status: model.RoundStatusWon, Score: 100}
	require.NoError(t, feed.Publish(ctx, event))

	select {
	case got := <-events:
		assert.Equal(t, event, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

type countingLister struct {
	calls   int
	entries []model.LeaderboardEntry
}

func (c *countingLister) List(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	c.calls++
	return c.entries[:min(limit, len(c.entries))], nil
}

func TestCachedLeaderboard(t *testing.T) {
	mr, rdb := newTestRedis(t)
	source := &countingLister{entries: []model.LeaderboardEntry{
		{PlayerName: "a", Score: 30, GamesWon: 3, WinRate: 75},
		{PlayerName: "b", Score: 20, GamesWon: 2, WinRate: 50},
	}}
	cache := NewCachedLeaderboard(rdb, source, 30*time.Second, zerolog.Nop())
	ctx := context.Background()

	first, err := cache.List(ctx, 10)
	require.NoError(t, err)
	second, err := cache.List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)

	_, err = cache.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "each limit is cached separately")

	mr.FastForward(time.Minute)
	_, err = cache.List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, source.calls)
}

func TestCachedLeaderboard_RedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	source := &countingLister{entries: []model.LeaderboardEntry{{PlayerName: "a", Score: 1}}}
	cache := NewCachedLeaderboard(rdb, source, time.Minute, zerolog.Nop())
	mr.Close()

	entries, err := cache.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
