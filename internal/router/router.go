package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/handler"
	"github.com/stemsi/guesswise-backend/internal/middleware"
	"github.com/stemsi/guesswise-backend/internal/response"
)

// leaderboardMaxAge is how long clients may cache the leaderboard.
const leaderboardMaxAge = 30

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Game   *handler.GameHandler
	Grade  *handler.GradeHandler
	Feed   *handler.FeedHandler
	WS     *handler.WSHandler
	Health *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// gatherer backs /metrics; nil skips the endpoint.
func SetupRouter(handlers *Handlers, cfg *config.Config, gatherer prometheus.Gatherer) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   cfg.CompressionLevel,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		SkipPaths: []string{"/metrics", "/api/v1/game/feed", "/ws/v1/game/stream"},
	}))

	router.GET("/health", handlers.Health.Health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Guesses and round starts are the write-heavy paths; everything else is
	// cheap reads.
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	api := router.Group("/api/v1")

	// ─── 1. Game Group ─────────────────────────────────────────────────
	game := api.Group("/game")
	{
		game.POST("", limiter.Middleware(), handlers.Game.Action)
		game.POST("/rounds", limiter.Middleware(), handlers.Game.StartRound)
		game.GET("/rounds/:round_id", handlers.Game.GetRound)
		game.POST("/rounds/:round_id/guesses", limiter.Middleware(), handlers.Game.SubmitGuess)
		game.GET("/players/:player_id/stats", handlers.Game.GetStats)
		game.GET("/feed", handlers.Feed.RoundFeedSSE)
	}

	api.GET("/leaderboard", middleware.CacheControl(leaderboardMaxAge), handlers.Game.GetLeaderboard)

	// ─── 2. Grade Calculator Group ─────────────────────────────────────
	grades := api.Group("/grades")
	{
		grades.POST("/compute", handlers.Grade.Compute)
		grades.POST("/sheets", handlers.Grade.CreateSheet)
		grades.GET("/sheets/:sheet_id", handlers.Grade.GetSheet)
		grades.POST("/sheets/:sheet_id/subjects", handlers.Grade.AddSubject)
		grades.DELETE("/sheets/:sheet_id/subjects/:subject_id", handlers.Grade.RemoveSubject)
		grades.PUT("/sheets/:sheet_id/subjects/:subject_id/marks", handlers.Grade.SetMarks)
		grades.POST("/sheets/:sheet_id/calculate", handlers.Grade.Calculate)
		grades.POST("/sheets/:sheet_id/reset", handlers.Grade.Reset)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/game/stream", handlers.WS.GameStream)
	}

	return router
}
