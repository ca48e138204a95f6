package model

import "time"

// MoveID uniquely identifies a move
type MoveID string

// Move is one accepted cell edit. Moves are immutable facts: corrections are
// recorded as new moves, never as updates, and the log is only deleted en
// masse when the parent game is deleted.
type Move struct {
	ID        MoveID
	GameID    GameID
	PlayerID  PlayerID
	Row       int // 0-8
	Col       int // 0-8
	Value     int // 0-9, 0 clears the cell
	IsCorrect bool
	IsHint    bool // true when the value was revealed by the server
	Timestamp time.Time
}

// ValidateCell range-checks a proposed move's coordinates and value
func ValidateCell(row, col, value int) error {
	if !InBounds(row, col) {
		return ErrInvalidPosition
	}
	if value < 0 || value > 9 {
		return ErrInvalidValue
	}
	return nil
}
