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

// SheetStore keeps grade calculator sheets in Redis. Sheets are form state,
// so they expire after ttl of inactivity.
type SheetStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSheetStore creates a new SheetStore.
func NewSheetStore(rdb *redis.Client, ttl time.Duration) *SheetStore {
	return &SheetStore{rdb: rdb, ttl: ttl}
}

func (s *SheetStore) Get(ctx context.Context, sheetID string) (*model.GradeSheet, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.GradeSheetKey(sheetID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sheet: %w", err)
	}

	var sheet model.GradeSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("unmarshal sheet: %w", err)
	}
	return &sheet, nil
}

func (s *SheetStore) Save(ctx context.Context, sheet *model.GradeSheet) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("marshal sheet: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.GradeSheetKey(sheet.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save sheet: %w", err)
	}
	return nil
}
