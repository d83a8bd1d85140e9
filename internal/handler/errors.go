package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/response"
	"github.com/stemsi/guesswise-backend/internal/service"
)

// errorStatus maps a service error to its HTTP status and API error code.
// Unknown errors are internal.
func errorStatus(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrRoundNotFound):
		return http.StatusNotFound, response.ErrRoundNotFound
	case errors.Is(err, service.ErrSheetNotFound):
		return http.StatusNotFound, response.ErrSheetNotFound
	case errors.Is(err, service.ErrSubjectNotFound):
		return http.StatusNotFound, response.ErrSubjectNotFound
	case errors.Is(err, service.ErrRoundFinished):
		return http.StatusConflict, response.ErrRoundFinished
	case errors.Is(err, service.ErrRoundNotOwned):
		return http.StatusConflict, response.ErrRoundNotOwned
	case errors.Is(err, service.ErrLastSubject):
		return http.StatusConflict, response.ErrLastSubject
	case errors.Is(err, service.ErrLockBusy):
		return http.StatusConflict, response.ErrBusy
	case errors.Is(err, service.ErrInvalidGuess):
		return http.StatusBadRequest, response.ErrInvalidGuess
	case errors.Is(err, service.ErrInvalidPlayer):
		return http.StatusBadRequest, response.ErrPlayerRequired
	case errors.Is(err, service.ErrEmptySubjectName):
		return http.StatusBadRequest, response.ErrEmptySubject
	case errors.Is(err, service.ErrMarksOutOfRange):
		return http.StatusBadRequest, response.ErrInvalidMarks
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, response.ErrValidation
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// rejectedWithRound reports whether err is a guess rejection whose result
// still carries the unchanged round state.
func rejectedWithRound(err error) bool {
	return errors.Is(err, service.ErrInvalidGuess) || errors.Is(err, service.ErrRoundFinished)
}

// failService writes the error envelope for err, logging internal errors.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", response.RequestID(c)).Str("path", c.FullPath()).Msg("Request failed")
	}
	response.Fail(c, status, code)
}
