package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/response"
	"github.com/stemsi/guesswise-backend/internal/service"
)

const keepAliveInterval = 30 * time.Second

// FeedHandler streams finished rounds to spectators via SSE.
type FeedHandler struct {
	gameService *service.GameService
	log         zerolog.Logger
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(gameService *service.GameService, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		gameService: gameService,
		log:         log.With().Str("component", "feed_handler").Logger(),
	}
}

// RoundFeedSSE godoc
// GET /api/v1/game/feed
func (h *FeedHandler) RoundFeedSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	events, err := h.gameService.Feed(reqCtx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to subscribe to round feed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}
	if events == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	h.log.Debug().Str("client_ip", c.ClientIP()).Msg("Spectator attached to round feed")

	for {
		select {
		case <-reqCtx.Done():
			h.log.Debug().Str("client_ip", c.ClientIP()).Msg("Spectator left round feed")
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent("round_finished", event)
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			c.SSEvent("ping", gin.H{"type": "ping"})
			c.Writer.Flush()
		}
	}
}
