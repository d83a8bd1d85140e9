package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stemsi/guesswise-backend/internal/response"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   response.ErrCode
	}{
		{service.ErrRoundNotFound, http.StatusNotFound, response.ErrRoundNotFound},
		{service.ErrSheetNotFound, http.StatusNotFound, response.ErrSheetNotFound},
		{service.ErrSubjectNotFound, http.StatusNotFound, response.ErrSubjectNotFound},
		{service.ErrRoundFinished, http.StatusConflict, response.ErrRoundFinished},
		{service.ErrRoundNotOwned, http.StatusConflict, response.ErrRoundNotOwned},
		{service.ErrLastSubject, http.StatusConflict, response.ErrLastSubject},
		{service.ErrLockBusy, http.StatusConflict, response.ErrBusy},
		{service.ErrInvalidGuess, http.StatusBadRequest, response.ErrInvalidGuess},
		{service.ErrInvalidPlayer, http.StatusBadRequest, response.ErrPlayerRequired},
		{service.ErrEmptySubjectName, http.StatusBadRequest, response.ErrEmptySubject},
		{service.ErrMarksOutOfRange, http.StatusBadRequest, response.ErrInvalidMarks},
		{fmt.Errorf("wrapped: %w", service.ErrRoundNotFound), http.StatusNotFound, response.ErrRoundNotFound},
		{errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := errorStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestRejectedWithRound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid guess", service.ErrInvalidGuess, true},
		{"round finished", service.ErrRoundFinished, true},
		{"wrapped finished", fmt.Errorf("submit: %w", service.ErrRoundFinished), true},
		{"not owned", service.ErrRoundNotOwned, false},
		{"stats save failure", fmt.Errorf("save stats: %w", errors.New("write failed")), false},
		{"lock busy", service.ErrLockBusy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rejectedWithRound(tt.err))
		})
	}
}

func TestLegacyGuessText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"42", "42"},
		{float64(42), "42"},
		{42.5, "42.5"},
		{nil, ""},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, legacyGuessText(tt.in))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 5s", formatDuration(5*time.Second))
	assert.Equal(t, "2h 3m 4s", formatDuration(2*time.Hour+3*time.Minute+4*time.Second))
	assert.Equal(t, "1d 1h 0m 0s", formatDuration(25*time.Hour))
}
