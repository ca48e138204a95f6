package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound      = errors.New("game not found")
	ErrGameNotComplete   = errors.New("game is not complete")
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrNameTaken       = errors.New("name already taken in this game")
	ErrInvalidToken    = errors.New("invalid player token")
	ErrPlayerNotInGame = errors.New("player does not belong to this game")

	// Move errors
	ErrClueCell        = errors.New("cannot modify initial board cells")
	ErrCellSolved      = errors.New("cell already solved")
	ErrCellCorrect     = errors.New("cell already has the correct value")
	ErrInvalidPosition = errors.New("invalid board position")
	ErrInvalidValue    = errors.New("invalid cell value")
)
