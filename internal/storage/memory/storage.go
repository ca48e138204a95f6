package memory

import (
	"context"
	"sync"

	"github.com/playgrid/sudoku-together/internal/model"
	"github.com/playgrid/sudoku-together/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games          map[model.GameID]*model.Game
	players        map[model.PlayerID]*model.Player
	playersForGame map[model.GameID][]model.PlayerID
	movesForGame   map[model.GameID][]*model.Move
	solvedCells    map[model.GameID]map[cellKey]bool
}

type cellKey struct {
	row int
	col int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:          make(map[model.GameID]*model.Game),
		players:        make(map[model.PlayerID]*model.Player),
		playersForGame: make(map[model.GameID][]model.PlayerID),
		movesForGame:   make(map[model.GameID][]*model.Move),
		solvedCells:    make(map[model.GameID]map[cellKey]bool),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *game
	s.games[game.ID] = &copied
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	for _, playerID := range s.playersForGame[id] {
		delete(s.players, playerID)
	}
	delete(s.playersForGame, id)
	delete(s.movesForGame, id)
	delete(s.solvedCells, id)
	return nil
}

func (s *Storage) ListActiveGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, game := range s.games {
		if game.IsActive {
			copied := *game
			games = append(games, &copied)
		}
	}
	return games, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[player.ID]; !exists {
		s.playersForGame[player.GameID] = append(s.playersForGame[player.GameID], player.ID)
	}
	copied := *player
	s.players[player.ID] = &copied
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) GetPlayersForGame(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.playersForGame[gameID]
	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		if player, ok := s.players[id]; ok {
			copied := *player
			players = append(players, &copied)
		}
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.players, id)

	ids := s.playersForGame[player.GameID]
	for i, pid := range ids {
		if pid == id {
			s.playersForGame[player.GameID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *move
	s.movesForGame[move.GameID] = append(s.movesForGame[move.GameID], &copied)
	if move.IsCorrect {
		cells, ok := s.solvedCells[move.GameID]
		if !ok {
			cells = make(map[cellKey]bool)
			s.solvedCells[move.GameID] = cells
		}
		cells[cellKey{row: move.Row, col: move.Col}] = true
	}
	return nil
}

func (s *Storage) GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moves := make([]*model.Move, 0, len(s.movesForGame[gameID]))
	for _, move := range s.movesForGame[gameID] {
		copied := *move
		moves = append(moves, &copied)
	}
	return moves, nil
}

func (s *Storage) HasCorrectMove(ctx context.Context, gameID model.GameID, row, col int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.solvedCells[gameID][cellKey{row: row, col: col}], nil
}
