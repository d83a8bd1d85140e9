package websocket

import "github.com/stemsi/guesswise-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionStart Action = "start"
	ActionGuess Action = "guess"
	ActionStats Action = "stats"
	ActionPing  Action = "ping"
)

// Request is any client message. RoundID and Guess are only read for
// ActionGuess; a guess without RoundID targets the connection's current round.
type Request struct {
	Action  Action `json:"action"`
	RoundID string `json:"round_id,omitempty"`
	Guess   string `json:"guess,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventStarted Event = "started"
	EventResult  Event = "result"
	EventStats   Event = "stats"
	EventPong    Event = "pong"
)

type StartedResponse struct {
	Event Event `json:"event"`
	model.StartRoundResponse
}

type ResultResponse struct {
	Event   Event  `json:"event"`
	RoundID string `json:"round_id"`
	model.GuessResult
}

type StatsResponse struct {
	Event Event `json:"event"`
	model.PlayerStatsResponse
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
