package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/response"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/stemsi/guesswise-backend/internal/validator"
	ws "github.com/stemsi/guesswise-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler plays the guessing game over a WebSocket.
type WSHandler struct {
	gameService *service.GameService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(gameService *service.GameService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		gameService: gameService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// wsSession is the per-connection state.
type wsSession struct {
	conn     *websocket.Conn
	log      zerolog.Logger
	playerID string
	roundID  string
}

// GameStream godoc
// WS /ws/v1/game/stream?player_id=
func (h *WSHandler) GameStream(c *gin.Context) {
	playerID := c.Query("player_id")
	if !validator.ValidPlayerID(playerID) {
		response.Fail(c, http.StatusBadRequest, response.ErrPlayerRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sess := &wsSession{
		conn:     conn,
		playerID: playerID,
		log:      h.log.With().Str("player_id", playerID).Logger(),
	}
	sess.log.Info().Msg("Player connected")

	ctx := c.Request.Context()
	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				sess.log.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionStart:
			h.handleStart(ctx, sess)
		case ws.ActionGuess:
			h.handleGuess(ctx, sess, &msg)
		case ws.ActionStats:
			h.handleStats(ctx, sess)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			sess.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			h.writeCode(sess, response.ErrInvalidAction)
		}
	}
}

func (h *WSHandler) handleStart(ctx context.Context, sess *wsSession) {
	started, err := h.gameService.StartRound(ctx)
	if err != nil {
		h.writeServiceError(sess, err)
		return
	}
	sess.roundID = started.RoundID
	ws.WriteTyped(sess.conn, ws.StartedResponse{Event: ws.EventStarted, StartRoundResponse: *started})
}

func (h *WSHandler) handleGuess(ctx context.Context, sess *wsSession, msg *ws.Request) {
	roundID := msg.RoundID
	if roundID == "" {
		roundID = sess.roundID
	}
	if roundID == "" {
		h.writeCode(sess, response.ErrRoundNotFound)
		return
	}

	// Rejected guesses still carry the round state and are sent as results.
	result, err := h.gameService.SubmitGuess(ctx, roundID, sess.playerID, msg.Guess)
	if err != nil && !rejectedWithRound(err) {
		h.writeServiceError(sess, err)
		return
	}
	ws.WriteTyped(sess.conn, ws.ResultResponse{Event: ws.EventResult, RoundID: roundID, GuessResult: result})
}

func (h *WSHandler) handleStats(ctx context.Context, sess *wsSession) {
	stats, err := h.gameService.GetStats(ctx, sess.playerID)
	if err != nil {
		h.writeServiceError(sess, err)
		return
	}
	ws.WriteTyped(sess.conn, ws.StatsResponse{Event: ws.EventStats, PlayerStatsResponse: stats})
}

func (h *WSHandler) writeServiceError(sess *wsSession, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		sess.log.Error().Err(err).Msg("Game action failed")
	}
	h.writeCode(sess, code)
}

func (h *WSHandler) writeCode(sess *wsSession, code response.ErrCode) {
	ws.WriteError(sess.conn, string(code), response.GetMessage(code))
}
