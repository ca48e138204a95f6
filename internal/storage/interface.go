package storage

import (
	"context"

	"github.com/playgrid/sudoku-together/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations do not provide cross-record transactions; callers that
// need a read-decide-write sequence to be atomic (move application in
// particular) must serialize through the game controller's per-game lock.
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	// DeleteGame removes the game and cascades to its players and moves
	DeleteGame(ctx context.Context, id model.GameID) error
	// ListActiveGames returns all games with IsActive set, in no particular order
	ListActiveGames(ctx context.Context) ([]*model.Game, error)

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// GetPlayersForGame returns the roster in creation order
	GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Move operations (append-only; moves are deleted only via DeleteGame)
	SaveMove(ctx context.Context, move *model.Move) error
	GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error)
	// HasCorrectMove reports whether a prior move at (row, col) for this
	// game was recorded with IsCorrect set
	HasCorrectMove(ctx context.Context, gameID model.GameID, row, col int) (bool, error)
}
