package repository

import (
	"context"
	"sync"
	"time"

	"github.com/stemsi/guesswise-backend/internal/model"
)

// memoryTable is a mutex-guarded map whose entries expire lazily. ttl <= 0
// keeps entries forever. Values are copied in and out so callers never share
// state with the table.
type memoryTable[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry[T]
}

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func newMemoryTable[T any](ttl time.Duration) *memoryTable[T] {
	return &memoryTable[T]{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry[T])}
}

func (t *memoryTable[T]) get(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !e.expiresAt.IsZero() && t.now().After(e.expiresAt) {
		delete(t.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

func (t *memoryTable[T]) put(key string, value T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := memoryEntry[T]{value: value}
	if t.ttl > 0 {
		e.expiresAt = t.now().Add(t.ttl)
	}
	t.entries[key] = e
}

// ────────────────────────────────────────────────────────────────────────────

// MemoryRoundStore keeps rounds in process memory.
type MemoryRoundStore struct {
	table *memoryTable[model.GameRound]
}

func NewMemoryRoundStore(ttl time.Duration) *MemoryRoundStore {
	return &MemoryRoundStore{table: newMemoryTable[model.GameRound](ttl)}
}

func (s *MemoryRoundStore) Get(_ context.Context, roundID string) (*model.GameRound, error) {
	round, ok := s.table.get(roundID)
	if !ok {
		return nil, ErrNotFound
	}
	if round.FinishedAt != nil {
		finished := *round.FinishedAt
		round.FinishedAt = &finished
	}
	return &round, nil
}

func (s *MemoryRoundStore) Save(_ context.Context, round *model.GameRound) error {
	s.table.put(round.ID, *round)
	return nil
}

// MemoryStatsStore keeps player stats in process memory.
type MemoryStatsStore struct {
	table *memoryTable[model.PlayerStats]
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{table: newMemoryTable[model.PlayerStats](0)}
}

func (s *MemoryStatsStore) Get(_ context.Context, playerID string) (model.PlayerStats, error) {
	stats, ok := s.table.get(playerID)
	if !ok {
		return model.PlayerStats{}, ErrNotFound
	}
	return stats, nil
}

func (s *MemoryStatsStore) Save(_ context.Context, playerID string, stats model.PlayerStats) error {
	s.table.put(playerID, stats)
	return nil
}

// MemorySheetStore keeps grade sheets in process memory.
type MemorySheetStore struct {
	table *memoryTable[model.GradeSheet]
}

func NewMemorySheetStore(ttl time.Duration) *MemorySheetStore {
	return &MemorySheetStore{table: newMemoryTable[model.GradeSheet](ttl)}
}

func (s *MemorySheetStore) Get(_ context.Context, sheetID string) (*model.GradeSheet, error) {
	sheet, ok := s.table.get(sheetID)
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSheet(sheet), nil
}

func (s *MemorySheetStore) Save(_ context.Context, sheet *model.GradeSheet) error {
	s.table.put(sheet.ID, *cloneSheet(*sheet))
	return nil
}

func cloneSheet(sheet model.GradeSheet) *model.GradeSheet {
	sheet.Subjects = append([]model.Subject(nil), sheet.Subjects...)
	if sheet.Result != nil {
		result := *sheet.Result
		sheet.Result = &result
	}
	return &sheet
}
