package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/model"
	"github.com/stemsi/guesswise-backend/internal/response"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/stemsi/guesswise-backend/internal/validator"
)

// GameHandler serves the guessing game over REST.
type GameHandler struct {
	gameService *service.GameService
	log         zerolog.Logger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *service.GameService, log zerolog.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		log:         log.With().Str("component", "game_handler").Logger(),
	}
}

// StartRound godoc
// POST /api/v1/game/rounds
func (h *GameHandler) StartRound(c *gin.Context) {
	started, err := h.gameService.StartRound(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, started)
}

// SubmitGuess godoc
// POST /api/v1/game/rounds/:round_id/guesses
// Rejected guesses still return the unchanged round state in data.
func (h *GameHandler) SubmitGuess(c *gin.Context) {
	var req model.SubmitGuessRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.gameService.SubmitGuess(c.Request.Context(), c.Param("round_id"), req.PlayerID, req.Guess)
	if err != nil {
		if rejectedWithRound(err) {
			status, code := errorStatus(err)
			response.FailWithData(c, status, code, result)
			return
		}
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetRound godoc
// GET /api/v1/game/rounds/:round_id
// The target number is only included once the round is over.
func (h *GameHandler) GetRound(c *gin.Context) {
	round, err := h.gameService.GetRound(c.Request.Context(), c.Param("round_id"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, model.NewRoundView(round))
}

// GetStats godoc
// GET /api/v1/game/players/:player_id/stats
func (h *GameHandler) GetStats(c *gin.Context) {
	stats, err := h.gameService.GetStats(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetLeaderboard godoc
// GET /api/v1/leaderboard?limit=
func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLeaderboardLimit)))
	if err != nil || limit < 1 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"limit": "limit must be a positive integer"})
		return
	}

	entries, err := h.gameService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// ─── Legacy action API ──────────────────────────────────────────────

// legacyStartMessage is the start text of the single-endpoint API.
const legacyStartMessage = "New game started! Guess a number between 1 and 100."

// legacyRequest is the single-endpoint payload. Guess may arrive as a JSON
// number or string.
type legacyRequest struct {
	Action   string `json:"action"`
	GameID   string `json:"gameId"`
	Guess    any    `json:"guess"`
	PlayerID string `json:"playerId"`
}

// Action godoc
// POST /api/v1/game
// Single-endpoint API kept for older clients. Always answers 200 with a
// success flag instead of the standard envelope.
func (h *GameHandler) Action(c *gin.Context) {
	var req legacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		legacyFail(c, response.GetMessage(response.ErrInternal))
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case "start":
		started, err := h.gameService.StartRound(ctx)
		if err != nil {
			h.legacyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"gameId":      started.RoundID,
			"message":     legacyStartMessage,
			"maxAttempts": started.MaxAttempts,
		})

	case "guess":
		result, err := h.gameService.SubmitGuess(ctx, req.GameID, req.PlayerID, legacyGuessText(req.Guess))
		if err != nil {
			h.legacyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     result.Message,
			"attempts":    result.AttemptsUsed,
			"maxAttempts": result.MaxAttempts,
			"status":      strings.ToLower(string(result.Status)),
			"score":       result.Score,
			"gameEnded":   result.Ended,
		})

	case "stats":
		stats, err := h.gameService.GetStats(ctx, req.PlayerID)
		if err != nil {
			h.legacyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats": gin.H{
				"totalGames":    stats.TotalGames,
				"gamesWon":      stats.GamesWon,
				"totalScore":    stats.TotalScore,
				"bestStreak":    stats.BestStreak,
				"currentStreak": stats.CurrentStreak,
			},
		})

	default:
		legacyFail(c, response.GetMessage(response.ErrInvalidAction))
	}
}

func (h *GameHandler) legacyError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Legacy action failed")
	}
	legacyFail(c, response.GetMessage(code))
}

func legacyFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

// legacyGuessText renders a decoded JSON guess for the engine's parser.
// Whole JSON numbers print without a fraction; anything else stays invalid.
func legacyGuessText(v any) string {
	switch g := v.(type) {
	case string:
		return g
	case float64:
		return strconv.FormatFloat(g, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(g)
	}
}
