package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/playgrid/sudoku-together/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newGame(id model.GameID) *model.Game {
	return &model.Game{
		ID:         id,
		Difficulty: model.DifficultyEasy,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.newGame("game-1")
	game.Solution[8][8] = 9
	game.CurrentBoard[8][8] = 9

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(9, retrieved.Solution[8][8])
	s.Equal(model.DifficultyEasy, retrieved.Difficulty)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGameTTLApplied() {
	game := s.newGame("game-1")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	ttl := s.mini.TTL(gameKey("game-1"))
	s.True(ttl > 0, "game key should carry a TTL")
}

func (s *StorageSuite) TestListActiveGamesSkipsExpired() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-live")))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-gone")))

	// Simulate the game key expiring while the index entry lingers
	s.mini.Del(gameKey("game-gone"))

	games, err := s.storage.ListActiveGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-live"), games[0].ID)
}

func (s *StorageSuite) TestInactiveGameLeavesActiveIndex() {
	game := s.newGame("game-1")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	game.IsActive = false
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	games, err := s.storage.ListActiveGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestDeleteGameCascades() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1")))

	player := &model.Player{ID: "player-1", GameID: "game-1", Name: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	move := &model.Move{ID: "move-1", GameID: "game-1", PlayerID: "player-1", Row: 1, Col: 1, Value: 2, IsCorrect: true}
	s.Require().NoError(s.storage.SaveMove(s.ctx, move))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	moves, err := s.storage.GetMovesForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(moves)

	games, err := s.storage.ListActiveGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

// Player tests

func (s *StorageSuite) TestPlayersForGameOrderedByCreation() {
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		player := &model.Player{
			ID:     model.PlayerID("player-" + name),
			GameID: "game-1",
			Name:   name,
		}
		s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	}

	players, err := s.storage.GetPlayersForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Alice", players[0].Name)
	s.Equal("Bob", players[1].Name)
	s.Equal("Carol", players[2].Name)
}

func (s *StorageSuite) TestResavePlayerKeepsSingleRosterEntry() {
	player := &model.Player{ID: "player-1", GameID: "game-1", Name: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	player.LastActive = time.Now().UTC()
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	players, err := s.storage.GetPlayersForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *StorageSuite) TestDeletePlayerRemovesFromRoster() {
	alice := &model.Player{ID: "player-1", GameID: "game-1", Name: "Alice"}
	bob := &model.Player{ID: "player-2", GameID: "game-1", Name: "Bob"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, bob))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	players, err := s.storage.GetPlayersForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("Bob", players[0].Name)
}

func (s *StorageSuite) TestDeleteMissingPlayerIsNoop() {
	s.NoError(s.storage.DeletePlayer(s.ctx, "nonexistent"))
}

// Move tests

func (s *StorageSuite) TestMovesAppendInOrder() {
	for i, value := range []int{3, 7, 1} {
		move := &model.Move{
			ID:       model.MoveID(string(rune('a' + i))),
			GameID:   "game-1",
			PlayerID: "player-1",
			Row:      i,
			Col:      i,
			Value:    value,
		}
		s.Require().NoError(s.storage.SaveMove(s.ctx, move))
	}

	moves, err := s.storage.GetMovesForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(moves, 3)
	s.Equal(3, moves[0].Value)
	s.Equal(7, moves[1].Value)
	s.Equal(1, moves[2].Value)
}

func (s *StorageSuite) TestHasCorrectMove() {
	wrong := &model.Move{ID: "m1", GameID: "game-1", Row: 4, Col: 5, Value: 2, IsCorrect: false}
	s.Require().NoError(s.storage.SaveMove(s.ctx, wrong))

	solved, err := s.storage.HasCorrectMove(s.ctx, "game-1", 4, 5)
	s.Require().NoError(err)
	s.False(solved)

	right := &model.Move{ID: "m2", GameID: "game-1", Row: 4, Col: 5, Value: 6, IsCorrect: true}
	s.Require().NoError(s.storage.SaveMove(s.ctx, right))

	solved, err = s.storage.HasCorrectMove(s.ctx, "game-1", 4, 5)
	s.Require().NoError(err)
	s.True(solved)
}
