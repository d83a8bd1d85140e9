package service

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/stemsi/guesswise-backend/internal/model"
)

const (
	MinTarget   = 1
	MaxTarget   = 100
	MaxAttempts = 7

	maxRoundScore   = 100
	scoreStep       = 10
	minWinningScore = 10
)

// RandomSource yields integers in [0, n). Tests inject fixed sequences.
type RandomSource interface {
	IntN(n int) int
}

// mathRandSource is the production source. Targets only need to be uniform,
// not unpredictable, so math/rand/v2 is enough.
type mathRandSource struct{}

func (mathRandSource) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom is the non-cryptographic source used outside tests.
var DefaultRandom RandomSource = mathRandSource{}

// StartPrompt is shown when a round begins.
var StartPrompt = fmt.Sprintf("🎯 I'm thinking of a number between %d and %d. You have %d attempts to guess it!",
	MinTarget, MaxTarget, MaxAttempts)

// NewRound draws a target uniformly from [MinTarget, MaxTarget].
func NewRound(id string, rng RandomSource, now time.Time) *model.GameRound {
	return &model.GameRound{
		ID:           id,
		TargetNumber: MinTarget + rng.IntN(MaxTarget-MinTarget+1),
		MaxAttempts:  MaxAttempts,
		Status:       model.RoundStatusPlaying,
		StartedAt:    now,
	}
}

// ParseGuess accepts a base-10 integer in [MinTarget, MaxTarget].
func ParseGuess(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < MinTarget || n > MaxTarget {
		return 0, ErrInvalidGuess
	}
	return n, nil
}

// EvaluateGuess applies one guess to a round. A finished round or an invalid
// guess is rejected without touching the round; otherwise one attempt is
// consumed and the round may become terminal.
func EvaluateGuess(round *model.GameRound, guessText string, now time.Time) (model.GuessResult, error) {
	if round.Status.Terminal() {
		return rejected(round, "Game is already finished"), ErrRoundFinished
	}
	guess, err := ParseGuess(guessText)
	if err != nil {
		return rejected(round, fmt.Sprintf("⚠️ Please enter a valid number between %d and %d", MinTarget, MaxTarget)), err
	}

	round.AttemptsUsed++
	result := model.GuessResult{Accepted: true, AttemptsUsed: round.AttemptsUsed, MaxAttempts: round.MaxAttempts}

	switch {
	case guess == round.TargetNumber:
		round.Status = model.RoundStatusWon
		round.Score = RoundScore(round.AttemptsUsed)
		round.FinishedAt = &now
		result.Message = fmt.Sprintf("🎉 Congratulations! You guessed it in %d %s! (+%d points)",
			round.AttemptsUsed, plural(round.AttemptsUsed, "attempt"), round.Score)
	case round.AttemptsUsed >= round.MaxAttempts:
		round.Status = model.RoundStatusLost
		round.Score = 0
		round.FinishedAt = &now
		result.Message = fmt.Sprintf("😔 Game over! The number was %d. Better luck next time!", round.TargetNumber)
	default:
		remaining := round.MaxAttempts - round.AttemptsUsed
		if guess < round.TargetNumber {
			result.Message = fmt.Sprintf("📈 Too low! Try a higher number. %d %s remaining.", remaining, plural(remaining, "attempt"))
		} else {
			result.Message = fmt.Sprintf("📉 Too high! Try a lower number. %d %s remaining.", remaining, plural(remaining, "attempt"))
		}
	}

	result.Status = round.Status
	result.Score = round.Score
	result.Ended = round.Status.Terminal()
	return result, nil
}

// RoundScore is 100 for a first-attempt win, 10 less per extra attempt,
// never below 10. Only attempts 1..MaxAttempts are reachable.
func RoundScore(attempts int) int {
	return max(maxRoundScore-(attempts-1)*scoreStep, minWinningScore)
}

// ApplyOutcome folds one finished round into a player's statistics.
func ApplyOutcome(stats model.PlayerStats, won bool, score int) model.PlayerStats {
	stats.TotalGames++
	stats.TotalScore += score
	if won {
		stats.GamesWon++
		stats.CurrentStreak++
		stats.BestStreak = max(stats.BestStreak, stats.CurrentStreak)
	} else {
		stats.CurrentStreak = 0
	}
	return stats
}

func rejected(round *model.GameRound, message string) model.GuessResult {
	return model.GuessResult{
		Accepted:     false,
		Message:      message,
		AttemptsUsed: round.AttemptsUsed,
		MaxAttempts:  round.MaxAttempts,
		Status:       round.Status,
		Score:        round.Score,
		Ended:        round.Status.Terminal(),
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
