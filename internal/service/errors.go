package service

import (
	"errors"
	"fmt"
)

// Taxonomy roots. Every engine rejection wraps exactly one of them, so callers
// can branch with errors.Is without knowing the specific cause.
var (
	ErrValidation    = errors.New("validation error")
	ErrStateConflict = errors.New("state conflict")
)

// Guessing game.
var (
	ErrInvalidGuess  = fmt.Errorf("%w: guess must be a whole number between %d and %d", ErrValidation, MinTarget, MaxTarget)
	ErrRoundFinished = fmt.Errorf("%w: round already finished", ErrStateConflict)
	ErrRoundNotOwned = fmt.Errorf("%w: round belongs to another player", ErrStateConflict)
	ErrRoundNotFound = errors.New("round not found")
	ErrInvalidPlayer = fmt.Errorf("%w: invalid player id", ErrValidation)
)

// Grade calculator.
var (
	ErrEmptySubjectName = fmt.Errorf("%w: subject name is empty", ErrValidation)
	ErrMarksOutOfRange  = fmt.Errorf("%w: marks must be between %d and %d", ErrValidation, MinMarks, MaxMarks)
	ErrLastSubject      = fmt.Errorf("%w: cannot remove the last subject", ErrStateConflict)
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSheetNotFound    = errors.New("grade sheet not found")
)

// ErrLockBusy is returned when a keyed lock could not be acquired in time.
var ErrLockBusy = errors.New("lock busy")
