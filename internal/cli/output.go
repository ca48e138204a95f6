package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case CreateResult:
		o.printCreateResult(v)
	case JoinResult:
		o.printJoinResult(v)
	case GameState:
		o.printGameState(v)
	case MoveResult:
		o.printMoveResult(v)
	case HintResult:
		o.printHintResult(v)
	case AvailableGames:
		o.printAvailableGames(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	PlayerID string `json:"player_id"`
	GameID   string `json:"game_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsHost   bool   `json:"is_host"`
}

// Game response type
type Game struct {
	GameID       string     `json:"game_id"`
	Difficulty   string     `json:"difficulty"`
	InitialBoard [][]int    `json:"initial_board"`
	CurrentBoard [][]int    `json:"current_board"`
	IsActive     bool       `json:"is_active"`
	IsComplete   bool       `json:"is_complete"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CompletedBy  string     `json:"completed_by,omitempty"`
}

// CreateResult is the response to game create
type CreateResult struct {
	Game   Game   `json:"game"`
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// JoinResult is the response to game join
type JoinResult struct {
	Game   Game   `json:"game"`
	Player Player `json:"player"`
	Token  string `json:"token,omitempty"`
}

// GameState bundles a game with its roster
type GameState struct {
	Game    Game     `json:"game"`
	Players []Player `json:"players"`
}

// Move response type
type Move struct {
	PlayerID  string `json:"player_id"`
	Row       int    `json:"row"`
	Column    int    `json:"column"`
	Value     int    `json:"value"`
	IsCorrect bool   `json:"is_correct"`
	IsHint    bool   `json:"is_hint"`
}

// MoveResult is the response to a submitted move
type MoveResult struct {
	Move         Move `json:"move"`
	GameComplete bool `json:"game_complete"`
}

// HintResult is the response to a hint request
type HintResult struct {
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

// AvailableGames lists joinable games
type AvailableGames struct {
	Games []AvailableGame `json:"games"`
}

// LeaveResult is the response to leaving a game
type LeaveResult struct {
	GameDeleted bool `json:"game_deleted"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	hostStr := ""
	if p.IsHost {
		hostStr = " [host]"
	}
	fmt.Printf("Player: %s (%s)%s\n", p.Name, p.PlayerID, hostStr)
	if p.Color != "" {
		fmt.Printf("Color: %s\n", p.Color)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.GameID)
	fmt.Printf("Difficulty: %s\n", g.Difficulty)
	if g.IsComplete {
		fmt.Println("Status: complete")
		if g.CompletedBy != "" {
			fmt.Printf("Completed By: %s\n", g.CompletedBy)
		}
	} else if g.IsActive {
		fmt.Println("Status: active")
	} else {
		fmt.Println("Status: inactive")
	}
	fmt.Println()
	o.printBoard(g.CurrentBoard)
}

func (o *Output) printCreateResult(r CreateResult) {
	o.printGame(r.Game)
	fmt.Println()
	o.printPlayer(r.Player)
	fmt.Printf("Token: %s\n", r.Token)
}

func (o *Output) printJoinResult(r JoinResult) {
	o.printGame(r.Game)
	fmt.Println()
	o.printPlayer(r.Player)
	if r.Token != "" {
		fmt.Printf("Token: %s\n", r.Token)
	}
}

func (o *Output) printGameState(s GameState) {
	o.printGame(s.Game)
	fmt.Printf("\nPlayers (%d):\n", len(s.Players))
	for _, p := range s.Players {
		hostStr := ""
		if p.IsHost {
			hostStr = " [host]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.Name, p.PlayerID, hostStr)
	}
}

func (o *Output) printMoveResult(r MoveResult) {
	if r.Move.IsCorrect {
		fmt.Printf("Correct! %d at (%d, %d)\n", r.Move.Value, r.Move.Row, r.Move.Column)
	} else if r.Move.Value == 0 {
		fmt.Printf("Cleared (%d, %d)\n", r.Move.Row, r.Move.Column)
	} else {
		fmt.Printf("Placed %d at (%d, %d), but it isn't right\n", r.Move.Value, r.Move.Row, r.Move.Column)
	}
	if r.GameComplete {
		fmt.Println("Puzzle solved!")
	}
}

func (o *Output) printHintResult(r HintResult) {
	fmt.Printf("Hint: %d at (%d, %d)\n", r.Value, r.Move.Row, r.Move.Column)
	if r.GameComplete {
		fmt.Println("Puzzle solved!")
	}
}

func (o *Output) printAvailableGames(a AvailableGames) {
	if len(a.Games) == 0 {
		fmt.Println("No joinable games")
		return
	}
	fmt.Printf("Joinable games (%d):\n", len(a.Games))
	for _, g := range a.Games {
		fmt.Printf("  - %s  %s  host=%s  players=%d\n", g.GameID, g.Difficulty, g.HostName, g.PlayerCount)
	}
}

// printBoard renders a 9x9 grid with box separators, "." for empty cells
func (o *Output) printBoard(board [][]int) {
	if len(board) == 0 {
		return
	}

	fmt.Println("    0 1 2   3 4 5   6 7 8")
	for row := 0; row < len(board); row++ {
		if row%3 == 0 {
			fmt.Println("  +-------+-------+-------+")
		}
		fmt.Printf("%d |", row)
		for col := 0; col < len(board[row]); col++ {
			if col%3 == 0 && col > 0 {
				fmt.Print(" |")
			}
			if board[row][col] == 0 {
				fmt.Print(" .")
			} else {
				fmt.Printf(" %d", board[row][col])
			}
		}
		fmt.Println(" |")
	}
	fmt.Println("  +-------+-------+-------+")
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
