package model

import "time"

// RoundStatus enumerates guessing-game round states.
type RoundStatus string

const (
	RoundStatusPlaying RoundStatus = "PLAYING"
	RoundStatusWon     RoundStatus = "WON"
	RoundStatusLost    RoundStatus = "LOST"
)

// Terminal reports whether no further guesses are accepted.
func (s RoundStatus) Terminal() bool {
	return s == RoundStatusWon || s == RoundStatusLost
}

// GameRound is one game from target selection to a terminal outcome.
type GameRound struct {
	ID           string      `json:"id"`
	TargetNumber int         `json:"target_number"`
	AttemptsUsed int         `json:"attempts_used"`
	MaxAttempts  int         `json:"max_attempts"`
	Status       RoundStatus `json:"status"`
	Score        int         `json:"score"`
	// PlayerID owns the round from its first accepted guess.
	PlayerID   string     `json:"player_id,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// PlayerStats aggregates a player's finished rounds.
type PlayerStats struct {
	TotalGames    int `json:"total_games"`
	GamesWon      int `json:"games_won"`
	TotalScore    int `json:"total_score"`
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// WinRate returns the percentage of games won, 0 when nothing was played.
func (s PlayerStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return 100 * float64(s.GamesWon) / float64(s.TotalGames)
}

// ─── API payloads ───────────────────────────────────────────────────

// StartRoundResponse is returned when a round starts.
type StartRoundResponse struct {
	RoundID     string `json:"round_id"`
	Prompt      string `json:"prompt"`
	MaxAttempts int    `json:"max_attempts"`
}

// SubmitGuessRequest is the payload for a guess. Guess stays a string so
// unparsable input reaches the engine and is rejected without using an attempt.
type SubmitGuessRequest struct {
	PlayerID string `json:"player_id" binding:"required,playerid"`
	Guess    string `json:"guess" binding:"max=32"`
}

// GuessResult is the outcome of a guess submission.
type GuessResult struct {
	Accepted     bool        `json:"accepted"`
	Message      string      `json:"message"`
	AttemptsUsed int         `json:"attempts_used"`
	MaxAttempts  int         `json:"max_attempts"`
	Status       RoundStatus `json:"status"`
	Score        int         `json:"score"`
	Ended        bool        `json:"ended"`
}

// RoundView is a round as shown to players; the target stays hidden until the
// round is over.
type RoundView struct {
	ID           string      `json:"id"`
	AttemptsUsed int         `json:"attempts_used"`
	MaxAttempts  int         `json:"max_attempts"`
	Remaining    int         `json:"remaining"`
	Status       RoundStatus `json:"status"`
	Score        int         `json:"score"`
	TargetNumber *int        `json:"target_number,omitempty"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   *time.Time  `json:"finished_at,omitempty"`
}

// NewRoundView hides the target of an unfinished round.
func NewRoundView(r *GameRound) RoundView {
	v := RoundView{
		ID:           r.ID,
		AttemptsUsed: r.AttemptsUsed,
		MaxAttempts:  r.MaxAttempts,
		Remaining:    r.MaxAttempts - r.AttemptsUsed,
		Status:       r.Status,
		Score:        r.Score,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
	if r.Status.Terminal() {
		target := r.TargetNumber
		v.TargetNumber = &target
	}
	return v
}

// PlayerStatsResponse is PlayerStats with the derived win rate.
type PlayerStatsResponse struct {
	PlayerID string `json:"player_id"`
	PlayerStats
	WinRate float64 `json:"win_rate"`
}

// RoundEvent is published whenever a round reaches a terminal state.
type RoundEvent struct {
	RoundID      string      `json:"round_id"`
	PlayerID     string      `json:"player_id"`
	Status       RoundStatus `json:"status"`
	AttemptsUsed int         `json:"attempts_used"`
	TargetNumber int         `json:"target_number"`
	Score        int         `json:"score"`
	Stats        PlayerStats `json:"stats"`
	FinishedAt   time.Time   `json:"finished_at"`
}
