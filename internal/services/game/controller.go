package game

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playgrid/sudoku-together/internal/dependencies/clock"
	"github.com/playgrid/sudoku-together/internal/model"
	"github.com/playgrid/sudoku-together/internal/services/auth"
	"github.com/playgrid/sudoku-together/internal/storage"
	"github.com/playgrid/sudoku-together/internal/sudoku"
)

// MaxRoomSize is the player count at which a game stops being advertised as
// joinable.
const MaxRoomSize = 10

// Controller owns all game state transitions. Every operation that reads the
// board to decide a write runs inside that game's exclusive lock, so moves
// arriving concurrently from websocket connections and the REST API serialize
// per game rather than race.
type Controller struct {
	storage   storage.Storage
	generator *sudoku.Generator
	auth      *auth.Service
	clock     clock.Clock
	logger    *slog.Logger

	mu        sync.Mutex
	gameLocks map[model.GameID]*sync.Mutex
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	generator *sudoku.Generator,
	authService *auth.Service,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		generator: generator,
		auth:      authService,
		clock:     clock,
		logger:    logger,
		gameLocks: make(map[model.GameID]*sync.Mutex),
	}
}

// lockGame returns the mutex serializing all board mutations for one game,
// creating it on first use
func (c *Controller) lockGame(id model.GameID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.gameLocks[id]
	if !ok {
		l = &sync.Mutex{}
		c.gameLocks[id] = l
	}
	return l
}

// forgetLock drops the lock entry for a deleted game. Goroutines still
// waiting on the old mutex proceed and fail their game lookup.
func (c *Controller) forgetLock(id model.GameID) {
	c.mu.Lock()
	delete(c.gameLocks, id)
	c.mu.Unlock()
}

// CreateGame generates a fresh puzzle and registers the creating player as
// host. The returned token is the plaintext credential for the host identity
// and is never persisted.
func (c *Controller) CreateGame(ctx context.Context, difficulty model.Difficulty, hostName, hostColor string) (*model.Game, *model.Player, string, error) {
	if !difficulty.Valid() {
		return nil, nil, "", model.ErrInvalidDifficulty
	}

	puzzle, solution := c.generator.Generate(difficulty)
	now := c.clock.Now()

	game := &model.Game{
		ID:           model.GameID(uuid.NewString()),
		InitialBoard: puzzle,
		CurrentBoard: puzzle,
		Solution:     solution,
		Difficulty:   difficulty,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
	}

	if hostColor == "" {
		hostColor = model.DefaultHostColor
	}
	token, hash, err := c.auth.Issue()
	if err != nil {
		return nil, nil, "", err
	}
	host := &model.Player{
		ID:         model.PlayerID(uuid.NewString()),
		GameID:     game.ID,
		Name:       hostName,
		Color:      hostColor,
		IsHost:     true,
		TokenHash:  hash,
		CreatedAt:  now,
		LastActive: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, "", err
	}
	if err := c.storage.SavePlayer(ctx, host); err != nil {
		return nil, nil, "", err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("difficulty", string(difficulty)),
		slog.String("host", hostName),
	)

	return game, host, token, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetRoster returns the game's players in creation order
func (c *Controller) GetRoster(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.GetPlayersForGame(ctx, gameID)
}

// GetMoves returns the game's move history in submission order
func (c *Controller) GetMoves(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.GetMovesForGame(ctx, gameID)
}

// JoinGame adds a player to an existing game. If the name is already taken
// and the presented token verifies against that player, the existing identity
// is re-claimed (reconnect after reload); otherwise the join is rejected.
// A fresh token is returned only for newly created players.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, name, color, token string) (*model.Game, *model.Player, string, error) {
	lock := c.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, "", err
	}

	roster, err := c.storage.GetPlayersForGame(ctx, gameID)
	if err != nil {
		return nil, nil, "", err
	}

	now := c.clock.Now()
	for _, existing := range roster {
		if existing.Name != name {
			continue
		}
		if err := c.auth.Verify(existing, token); err != nil {
			return nil, nil, "", model.ErrNameTaken
		}
		existing.LastActive = now
		if err := c.storage.SavePlayer(ctx, existing); err != nil {
			return nil, nil, "", err
		}
		c.logger.Info("player reclaimed",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(existing.ID)),
		)
		return game, existing, "", nil
	}

	if color == "" {
		color = model.PickGuestColor(roster)
	}
	newToken, hash, err := c.auth.Issue()
	if err != nil {
		return nil, nil, "", err
	}
	player := &model.Player{
		ID:         model.PlayerID(uuid.NewString()),
		GameID:     gameID,
		Name:       name,
		Color:      color,
		TokenHash:  hash,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, nil, "", err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(player.ID)),
		slog.String("name", name),
	)

	return game, player, newToken, nil
}

// ApplyMove validates and records one cell edit. Preconditions are checked in
// a fixed order, first failure wins: clue cell, cell frozen by a prior
// correct move, coordinate and value range. On success the board is updated,
// the move appended, and completion rechecked by full-board comparison.
// The returned bool reports whether this move completed the puzzle.
func (c *Controller) ApplyMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, row, col, value int) (*model.Move, bool, error) {
	lock := c.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, player, err := c.loadGameAndPlayer(ctx, gameID, playerID)
	if err != nil {
		return nil, false, err
	}

	if game.IsClueCell(row, col) {
		return nil, false, model.ErrClueCell
	}
	solved, err := c.storage.HasCorrectMove(ctx, gameID, row, col)
	if err != nil {
		return nil, false, err
	}
	if solved {
		return nil, false, model.ErrCellSolved
	}
	if err := model.ValidateCell(row, col, value); err != nil {
		return nil, false, err
	}

	move := &model.Move{
		ID:        model.MoveID(uuid.NewString()),
		GameID:    gameID,
		PlayerID:  player.ID,
		Row:       row,
		Col:       col,
		Value:     value,
		IsCorrect: value != 0 && value == game.Solution[row][col],
		Timestamp: c.clock.Now(),
	}

	game.CurrentBoard[row][col] = value
	return c.commitMove(ctx, game, move)
}

// ApplyHint reveals the solution value for one cell on behalf of a player.
// Clue cells and cells already holding the correct value are rejected; the
// revealed value is recorded as a hint-flagged correct move.
func (c *Controller) ApplyHint(ctx context.Context, gameID model.GameID, playerID model.PlayerID, row, col int) (*model.Move, bool, error) {
	lock := c.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, player, err := c.loadGameAndPlayer(ctx, gameID, playerID)
	if err != nil {
		return nil, false, err
	}

	if game.IsClueCell(row, col) {
		return nil, false, model.ErrClueCell
	}
	if err := model.ValidateCell(row, col, 0); err != nil {
		return nil, false, err
	}
	if game.CurrentBoard[row][col] == game.Solution[row][col] {
		return nil, false, model.ErrCellCorrect
	}

	value := game.Solution[row][col]
	move := &model.Move{
		ID:        model.MoveID(uuid.NewString()),
		GameID:    gameID,
		PlayerID:  player.ID,
		Row:       row,
		Col:       col,
		Value:     value,
		IsCorrect: true,
		IsHint:    true,
		Timestamp: c.clock.Now(),
	}

	game.CurrentBoard[row][col] = value
	return c.commitMove(ctx, game, move)
}

// loadGameAndPlayer fetches both records and verifies the player belongs to
// the game. Must be called with the game lock held.
func (c *Controller) loadGameAndPlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, *model.Player, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	if player.GameID != gameID {
		return nil, nil, model.ErrPlayerNotInGame
	}
	return game, player, nil
}

// commitMove persists an accepted move and the mutated board, transitioning
// the game to complete at most once. Must be called with the game lock held.
func (c *Controller) commitMove(ctx context.Context, game *model.Game, move *model.Move) (*model.Move, bool, error) {
	completed := false
	if !game.IsComplete && game.BoardComplete() {
		game.IsComplete = true
		game.IsActive = false
		game.CompletedAt = move.Timestamp
		game.CompletedBy = move.PlayerID
		completed = true
	}
	game.LastActivity = move.Timestamp

	if err := c.storage.SaveMove(ctx, move); err != nil {
		return nil, false, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, false, err
	}

	if completed {
		c.logger.Info("game completed",
			slog.String("game_id", string(game.ID)),
			slog.String("completed_by", string(move.PlayerID)),
		)
	}

	return move, completed, nil
}

// ConfirmComplete honors an explicit completion claim from a client. The
// board is rechecked server-side; a claim on an incomplete board is rejected.
// Confirming an already-complete game is a no-op returning the stored state.
func (c *Controller) ConfirmComplete(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	lock := c.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, player, err := c.loadGameAndPlayer(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	if game.IsComplete {
		return game, nil
	}
	if !game.BoardComplete() {
		return nil, model.ErrGameNotComplete
	}

	now := c.clock.Now()
	game.IsComplete = true
	game.IsActive = false
	game.CompletedAt = now
	game.CompletedBy = player.ID
	game.LastActivity = now
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game completion confirmed",
		slog.String("game_id", string(gameID)),
		slog.String("completed_by", string(playerID)),
	)

	return game, nil
}

// LeavePlayer removes a player's record. When the last player leaves, the
// game and its moves are deleted as well; the returned bool reports whether
// that happened.
func (c *Controller) LeavePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (bool, error) {
	lock := c.lockGame(gameID)
	lock.Lock()
	defer lock.Unlock()

	_, player, err := c.loadGameAndPlayer(ctx, gameID, playerID)
	if err != nil {
		return false, err
	}

	if err := c.storage.DeletePlayer(ctx, player.ID); err != nil {
		return false, err
	}

	roster, err := c.storage.GetPlayersForGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	if len(roster) > 0 {
		c.logger.Info("player left",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.Int("remaining", len(roster)),
		)
		return false, nil
	}

	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return false, err
	}
	c.forgetLock(gameID)

	c.logger.Info("game deleted, last player left",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)

	return true, nil
}

// TouchPlayer records liveness for a connected player (driven by the
// websocket heartbeat)
func (c *Controller) TouchPlayer(ctx context.Context, playerID model.PlayerID) error {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	player.LastActive = c.clock.Now()
	return c.storage.SavePlayer(ctx, player)
}

// AvailableGame is a lobby listing entry for a joinable game
type AvailableGame struct {
	GameID      model.GameID
	Difficulty  model.Difficulty
	HostName    string
	PlayerCount int
	CreatedAt   time.Time
}

// ListAvailableGames returns active games that still have room, newest first
func (c *Controller) ListAvailableGames(ctx context.Context) ([]AvailableGame, error) {
	games, err := c.storage.ListActiveGames(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]AvailableGame, 0, len(games))
	for _, game := range games {
		roster, err := c.storage.GetPlayersForGame(ctx, game.ID)
		if err != nil {
			return nil, err
		}
		if len(roster) >= MaxRoomSize {
			continue
		}
		entry := AvailableGame{
			GameID:      game.ID,
			Difficulty:  game.Difficulty,
			PlayerCount: len(roster),
			CreatedAt:   game.CreatedAt,
		}
		for _, p := range roster {
			if p.IsHost {
				entry.HostName = p.Name
				break
			}
		}
		available = append(available, entry)
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].CreatedAt.After(available[j].CreatedAt)
	})

	return available, nil
}

// CleanupInactive deletes active games whose last activity is older than the
// given age, cascading to players and moves. With dryRun set, it only reports
// which games would go. Returns the affected game IDs.
func (c *Controller) CleanupInactive(ctx context.Context, olderThan time.Duration, dryRun bool) ([]model.GameID, error) {
	games, err := c.storage.ListActiveGames(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := c.clock.Now().Add(-olderThan)

	var reaped []model.GameID
	for _, game := range games {
		if game.IsComplete || !game.LastActivity.Before(cutoff) {
			continue
		}
		reaped = append(reaped, game.ID)
		if dryRun {
			continue
		}

		lock := c.lockGame(game.ID)
		lock.Lock()
		err := c.storage.DeleteGame(ctx, game.ID)
		lock.Unlock()
		if err != nil {
			return reaped, err
		}
		c.forgetLock(game.ID)

		c.logger.Info("inactive game reaped",
			slog.String("game_id", string(game.ID)),
			slog.Time("last_activity", game.LastActivity),
		)
	}

	return reaped, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, difficulty model.Difficulty, hostName, hostColor string) (*model.Game, *model.Player, string, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetRoster(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	GetMoves(ctx context.Context, gameID model.GameID) ([]*model.Move, error)
	JoinGame(ctx context.Context, gameID model.GameID, name, color, token string) (*model.Game, *model.Player, string, error)
	ApplyMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, row, col, value int) (*model.Move, bool, error)
	ApplyHint(ctx context.Context, gameID model.GameID, playerID model.PlayerID, row, col int) (*model.Move, bool, error)
	ConfirmComplete(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	LeavePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (bool, error)
	TouchPlayer(ctx context.Context, playerID model.PlayerID) error
	ListAvailableGames(ctx context.Context) ([]AvailableGame, error)
	CleanupInactive(ctx context.Context, olderThan time.Duration, dryRun bool) ([]model.GameID, error)
}

var _ ControllerInterface = (*Controller)(nil)
