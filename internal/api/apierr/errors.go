// Package apierr maps domain errors onto stable HTTP error responses.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playgrid/sudoku-together/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidDifficulty = "INVALID_DIFFICULTY"
	CodeInvalidPosition   = "INVALID_POSITION"
	CodeInvalidValue      = "INVALID_VALUE"
	CodeClueCell          = "CLUE_CELL"
	CodeCellSolved        = "CELL_SOLVED"
	CodeCellCorrect       = "CELL_CORRECT"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeGameNotComplete   = "GAME_NOT_COMPLETE"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodePlayerNotInGame   = "PLAYER_NOT_IN_GAME"
	CodeNameTaken         = "NAME_TAKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrPlayerNotInGame):
		return &httpError{http.StatusForbidden, APIError{CodePlayerNotInGame, "Player does not belong to this game"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Name already taken in this game"}}
	case errors.Is(err, model.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidToken, "Invalid player token"}}
	case errors.Is(err, model.ErrInvalidDifficulty):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDifficulty, "Difficulty must be easy, medium or hard"}}
	case errors.Is(err, model.ErrClueCell):
		return &httpError{http.StatusConflict, APIError{CodeClueCell, "Cannot modify initial board cells"}}
	case errors.Is(err, model.ErrCellSolved):
		return &httpError{http.StatusConflict, APIError{CodeCellSolved, "Cell already solved"}}
	case errors.Is(err, model.ErrCellCorrect):
		return &httpError{http.StatusConflict, APIError{CodeCellCorrect, "Cell already has the correct value"}}
	case errors.Is(err, model.ErrGameNotComplete):
		return &httpError{http.StatusConflict, APIError{CodeGameNotComplete, "Board is not complete"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Row and column must be between 0 and 8"}}
	case errors.Is(err, model.ErrInvalidValue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidValue, "Value must be between 0 and 9"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
