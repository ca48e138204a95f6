package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Difficulty selects how many clues are removed from a generated puzzle
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RemovalCount returns the number of cells cleared from a solved grid to
// produce a puzzle of this difficulty
func (d Difficulty) RemovalCount() int {
	switch d {
	case DifficultyEasy:
		return 40
	case DifficultyHard:
		return 60
	default:
		return 50
	}
}

// Valid returns true for a recognized difficulty tag
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Game is a shared Sudoku board being filled by a room of players
type Game struct {
	ID           GameID
	InitialBoard Grid // clue cells, never mutated after creation
	CurrentBoard Grid
	Solution     Grid
	Difficulty   Difficulty
	IsActive     bool
	IsComplete   bool
	CreatedAt    time.Time
	LastActivity time.Time
	CompletedAt  time.Time // zero until the game completes
	CompletedBy  PlayerID  // empty until the game completes
}

// IsClueCell returns true if the cell was pre-filled in the initial puzzle
func (g *Game) IsClueCell(row, col int) bool {
	return InBounds(row, col) && g.InitialBoard[row][col] != 0
}

// BoardComplete returns true if every cell of the current board matches the
// solution. This is a full 81-cell scan on purpose: it is cheap and cannot
// drift the way an incremental counter could.
func (g *Game) BoardComplete() bool {
	return g.CurrentBoard == g.Solution
}
