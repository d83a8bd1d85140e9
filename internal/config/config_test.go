package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDriver(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"redis", StoreDriverRedis},
		{"memory", StoreDriverMemory},
		{"  MEMORY ", StoreDriverMemory},
		{"sqlite", StoreDriverRedis},
		{"", StoreDriverRedis},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDriver(tt.raw))
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseOrigins(" https://a.example, ,https://b.example "))
}

func TestLoad(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ROUND_TTL_HOURS", "6")
	t.Setenv("RATE_LIMIT_RPS", "-3")
	t.Setenv("MAX_DB_CONNS", "many")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.False(t, cfg.UsesRedis())
	assert.Equal(t, 6*time.Hour, cfg.RoundTTL)
	assert.Equal(t, 5.0, cfg.RateLimitRPS, "non-positive rates fall back")
	assert.Equal(t, int32(8), cfg.MaxDBConns)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "game:round:r1", CacheKey.RoundKey("r1"))
	assert.Equal(t, "lock:round:r1", CacheKey.RoundLockKey("r1"))
	assert.Equal(t, "player:p1:stats", CacheKey.PlayerStatsKey("p1"))
	assert.Equal(t, "lock:player:p1", CacheKey.PlayerLockKey("p1"))
	assert.Equal(t, "grades:sheet:s1", CacheKey.GradeSheetKey("s1"))
	assert.Equal(t, "lock:sheet:s1", CacheKey.GradeSheetLockKey("s1"))
	assert.Equal(t, "leaderboard:top:10", CacheKey.LeaderboardKey(10))
}
