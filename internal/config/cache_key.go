package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RoundKey returns the cache key for a guessing-game round
func (r *CacheKeyStruct) RoundKey(roundID string) string {
	return fmt.Sprintf("game:round:%s", roundID)
}

// RoundLockKey returns the lock key guarding guesses on a round
func (r *CacheKeyStruct) RoundLockKey(roundID string) string {
	return fmt.Sprintf("lock:round:%s", roundID)
}

// PlayerStatsKey returns the cache key for a player's running statistics
func (r *CacheKeyStruct) PlayerStatsKey(playerID string) string {
	return fmt.Sprintf("player:%s:stats", playerID)
}

// PlayerLockKey returns the lock key guarding a player's statistics
func (r *CacheKeyStruct) PlayerLockKey(playerID string) string {
	return fmt.Sprintf("lock:player:%s", playerID)
}

// GradeSheetKey returns the cache key for a grade calculator sheet
func (r *CacheKeyStruct) GradeSheetKey(sheetID string) string {
	return fmt.Sprintf("grades:sheet:%s", sheetID)
}

// GradeSheetLockKey returns the lock key guarding edits to a grade sheet
func (r *CacheKeyStruct) GradeSheetLockKey(sheetID string) string {
	return fmt.Sprintf("lock:sheet:%s", sheetID)
}

// LeaderboardKey returns the cache key for the cached leaderboard payload
func (r *CacheKeyStruct) LeaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:top:%d", limit)
}

var CacheKey = NewCacheKeyStruct()
