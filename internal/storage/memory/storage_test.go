package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playgrid/sudoku-together/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newGame(id model.GameID) *model.Game {
	return &model.Game{
		ID:         id,
		Difficulty: model.DifficultyMedium,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.newGame("game-1")
	game.InitialBoard[0][0] = 5
	game.CurrentBoard[0][0] = 5
	game.Solution[0][0] = 5

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(5, retrieved.InitialBoard[0][0])
	s.Equal(model.DifficultyMedium, retrieved.Difficulty)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGetGameReturnsCopy() {
	game := s.newGame("game-1")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	first, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	first.CurrentBoard[4][4] = 9

	second, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(0, second.CurrentBoard[4][4], "mutating a retrieved game must not affect the store")
}

func (s *StorageSuite) TestListActiveGames() {
	active := s.newGame("game-active")
	inactive := s.newGame("game-inactive")
	inactive.IsActive = false

	s.Require().NoError(s.storage.SaveGame(s.ctx, active))
	s.Require().NoError(s.storage.SaveGame(s.ctx, inactive))

	games, err := s.storage.ListActiveGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 1)
	s.Equal(model.GameID("game-active"), games[0].ID)
}

func (s *StorageSuite) TestDeleteGameCascades() {
	game := s.newGame("game-1")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	player := &model.Player{ID: "player-1", GameID: "game-1", Name: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	move := &model.Move{ID: "move-1", GameID: "game-1", PlayerID: "player-1", Row: 0, Col: 0, Value: 5, IsCorrect: true}
	s.Require().NoError(s.storage.SaveMove(s.ctx, move))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	moves, err := s.storage.GetMovesForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(moves)

	solved, err := s.storage.HasCorrectMove(s.ctx, "game-1", 0, 0)
	s.Require().NoError(err)
	s.False(solved)
}

// Player tests

func (s *StorageSuite) TestPlayersForGameOrderedByCreation() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1")))

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

func (s *StorageSuite) TestSavePlayerTwiceKeepsSingleRosterEntry() {
	player := &model.Player{ID: "player-1", GameID: "game-1", Name: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	player.LastActive = time.Now()
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
	wrong := &model.Move{ID: "m1", GameID: "game-1", Row: 2, Col: 3, Value: 4, IsCorrect: false}
	right := &model.Move{ID: "m2", GameID: "game-1", Row: 2, Col: 3, Value: 8, IsCorrect: true}

	s.Require().NoError(s.storage.SaveMove(s.ctx, wrong))

	solved, err := s.storage.HasCorrectMove(s.ctx, "game-1", 2, 3)
	s.Require().NoError(err)
	s.False(solved, "incorrect move must not mark the cell solved")

	s.Require().NoError(s.storage.SaveMove(s.ctx, right))

	solved, err = s.storage.HasCorrectMove(s.ctx, "game-1", 2, 3)
	s.Require().NoError(err)
	s.True(solved)
}
