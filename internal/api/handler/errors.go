package handler

import (
	"net/http"

	"github.com/playgrid/sudoku-together/internal/api/apierr"
)

// WriteError maps a service error onto the wire format for error responses.
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError flags a malformed or incomplete request body.
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
