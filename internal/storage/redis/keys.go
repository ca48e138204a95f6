package redis

import (
	"fmt"

	"github.com/playgrid/sudoku-together/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "sudoku"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// activeGamesKey returns the Redis key for the SET of active game ids
func activeGamesKey() string {
	return fmt.Sprintf("%s:idx:active_games", keyPrefix)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersForGameKey returns the Redis key for the LIST of player ids in a
// game, in creation order
func playersForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:players_for_game:%s", keyPrefix, gameID)
}

// movesForGameKey returns the Redis key for the LIST of a game's moves, in
// append order
func movesForGameKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:moves:%s", keyPrefix, gameID)
}

// solvedCellsKey returns the Redis key for the SET of cells a correct move
// has been recorded for
func solvedCellsKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:solved_cells:%s", keyPrefix, gameID)
}

// cellMember is the set member encoding for a board cell
func cellMember(row, col int) string {
	return fmt.Sprintf("%d:%d", row, col)
}
