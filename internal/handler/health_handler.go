package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/guesswise-backend/internal/config"
)

const pingTimeout = 2 * time.Second

// HealthHandler reports liveness plus the state of optional backends.
type HealthHandler struct {
	rdb       *redis.Client
	pool      *pgxpool.Pool
	driver    string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. rdb and pool may be nil when the
// corresponding backend is not configured.
func NewHealthHandler(rdb *redis.Client, pool *pgxpool.Pool, driver string) *HealthHandler {
	return &HealthHandler{
		rdb:       rdb,
		pool:      pool,
		driver:    driver,
		startTime: time.Now(),
	}
}

type healthReport struct {
	Status      string            `json:"status"`
	StoreDriver string            `json:"store_driver"`
	Uptime      string            `json:"uptime"`
	Goroutines  int               `json:"goroutines"`
	Backends    map[string]string `json:"backends,omitempty"`
	HistoryLag  *int64            `json:"history_queue_length,omitempty"`
}

// Health godoc
// GET /health
// Always 200 while the process serves requests; backend failures are reported
// in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	report := healthReport{
		Status:      "ok",
		StoreDriver: h.driver,
		Uptime:      formatDuration(time.Since(h.startTime)),
		Goroutines:  runtime.NumGoroutine(),
		Backends:    map[string]string{},
	}

	if h.rdb != nil {
		report.Backends["redis"] = pingResult(h.rdb.Ping(ctx).Err())
		if n, err := h.rdb.LLen(ctx, config.WorkerKey.PersistRoundsQueue).Result(); err == nil {
			report.HistoryLag = &n
		}
	}
	if h.pool != nil {
		report.Backends["postgres"] = pingResult(h.pool.Ping(ctx))
	}

	c.JSON(http.StatusOK, report)
}

func pingResult(err error) string {
	if err != nil {
		return "down: " + err.Error()
	}
	return "up"
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
