package response

import (
	"time"

	"github.com/playgrid/sudoku-together/internal/model"
	"github.com/playgrid/sudoku-together/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	PlayerID string    `json:"player_id"`
	GameID   string    `json:"game_id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	IsHost   bool      `json:"is_host"`
	JoinedAt time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		PlayerID: string(p.ID),
		GameID:   string(p.GameID),
		Name:     p.Name,
		Color:    p.Color,
		IsHost:   p.IsHost,
		JoinedAt: p.CreatedAt,
	}
}

// Game represents a game in API responses. The solution grid is never
// exposed; clients learn correctness from move results and hints.
type Game struct {
	GameID       string     `json:"game_id"`
	Difficulty   string     `json:"difficulty"`
	InitialBoard [][]int    `json:"initial_board"`
	CurrentBoard [][]int    `json:"current_board"`
	IsActive     bool       `json:"is_active"`
	IsComplete   bool       `json:"is_complete"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CompletedBy  string     `json:"completed_by,omitempty"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	resp := Game{
		GameID:       string(g.ID),
		Difficulty:   string(g.Difficulty),
		InitialBoard: g.InitialBoard.Rows(),
		CurrentBoard: g.CurrentBoard.Rows(),
		IsActive:     g.IsActive,
		IsComplete:   g.IsComplete,
		CreatedAt:    g.CreatedAt,
		LastActivity: g.LastActivity,
		CompletedBy:  string(g.CompletedBy),
	}
	if !g.CompletedAt.IsZero() {
		t := g.CompletedAt
		resp.CompletedAt = &t
	}
	return resp
}

// Move represents an accepted move in API responses
type Move struct {
	PlayerID  string    `json:"player_id"`
	Row       int       `json:"row"`
	Column    int       `json:"column"`
	Value     int       `json:"value"`
	IsCorrect bool      `json:"is_correct"`
	IsHint    bool      `json:"is_hint"`
	Timestamp time.Time `json:"timestamp"`
}

// MoveFromModel converts a model.Move to a response Move
func MoveFromModel(m *model.Move) Move {
	return Move{
		PlayerID:  string(m.PlayerID),
		Row:       m.Row,
		Column:    m.Col,
		Value:     m.Value,
		IsCorrect: m.IsCorrect,
		IsHint:    m.IsHint,
		Timestamp: m.Timestamp,
	}
}

// CreateGameResponse is returned after creating a game
type CreateGameResponse struct {
	Game   Game   `json:"game"`
	Player Player `json:"player"`
	// Token is the credential for re-claiming this player; shown once
	Token string `json:"token"`
}

// JoinGameResponse is returned after joining a game. Token is empty when an
// existing identity was re-claimed.
type JoinGameResponse struct {
	Game   Game   `json:"game"`
	Player Player `json:"player"`
	Token  string `json:"token,omitempty"`
}

// MoveResponse is returned after submitting a move or hint
type MoveResponse struct {
	Move         Move `json:"move"`
	GameComplete bool `json:"game_complete"`
}

// HintResponse is returned after requesting a hint
type HintResponse struct {
	Move         Move `json:"move"`
	Value        int  `json:"value"`
	GameComplete bool `json:"game_complete"`
}

// AvailableGame is one lobby listing entry
type AvailableGame struct {
	GameID      string    `json:"game_id"`
	Difficulty  string    `json:"difficulty"`
	HostName    string    `json:"host_name"`
	PlayerCount int       `json:"player_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailableGamesResponse lists joinable games
type AvailableGamesResponse struct {
	Games []AvailableGame `json:"games"`
}

// AvailableGamesFromService converts the controller's listing
func AvailableGamesFromService(entries []game.AvailableGame) AvailableGamesResponse {
	games := make([]AvailableGame, len(entries))
	for i, e := range entries {
		games[i] = AvailableGame{
			GameID:      string(e.GameID),
			Difficulty:  string(e.Difficulty),
			HostName:    e.HostName,
			PlayerCount: e.PlayerCount,
			CreatedAt:   e.CreatedAt,
		}
	}
	return AvailableGamesResponse{Games: games}
}

// GameStateResponse bundles a game with its roster and move history
type GameStateResponse struct {
	Game    Game     `json:"game"`
	Players []Player `json:"players"`
	Moves   []Move   `json:"moves"`
}

// GameStateFromModel converts a game, its roster, and its move history
func GameStateFromModel(g *model.Game, roster []*model.Player, history []*model.Move) GameStateResponse {
	players := make([]Player, len(roster))
	for i, p := range roster {
		players[i] = PlayerFromModel(p)
	}
	moves := make([]Move, len(history))
	for i, m := range history {
		moves[i] = MoveFromModel(m)
	}
	return GameStateResponse{Game: GameFromModel(g), Players: players, Moves: moves}
}

// LeaveResponse reports the result of leaving a game
type LeaveResponse struct {
	GameDeleted bool `json:"game_deleted"`
}
