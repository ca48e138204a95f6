package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameBoardCmd())
	cmd.AddCommand(newGamePlayersCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameHintCmd())
	cmd.AddCommand(newGameLeaveCmd())

	return cmd
}

// sessionGameID resolves the game to act on: explicit argument first, then
// the saved session.
func sessionGameID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Session != nil && cfg.Session.GameID != "" {
		return cfg.Session.GameID, nil
	}
	return "", fmt.Errorf("no game specified and no saved session; pass a game id or create/join first")
}

// sessionPlayerID returns the saved player identity
func sessionPlayerID() (string, error) {
	if cfg.Session != nil && cfg.Session.PlayerID != "" {
		return cfg.Session.PlayerID, nil
	}
	return "", fmt.Errorf("no saved session; create or join a game first")
}

func newGameCreateCmd() *cobra.Command {
	var name, difficulty, color string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game and host it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"difficulty":  difficulty,
				"player_name": name,
				"color":       color,
			}
			var result CreateResult

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(Session{
				GameID:   result.Game.GameID,
				PlayerID: result.Player.PlayerID,
				Name:     result.Player.Name,
				Token:    result.Token,
			}); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "Difficulty: easy, medium, hard")
	cmd.Flags().StringVar(&color, "color", "", "Player color (hex)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List joinable games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AvailableGames

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [game-id]",
		Short: "Show the board and roster",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(args)
			if err != nil {
				return err
			}

			var result GameState

			if err := client.Get("/api/v1/games/"+gameID, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board [game-id]",
		Short: "Show just the board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(args)
			if err != nil {
				return err
			}

			var result GameState

			if err := client.Get("/api/v1/games/"+gameID, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if cfg.Output == "json" {
				out.Print(result.Game)
			} else {
				out.printBoard(result.Game.CurrentBoard)
			}
			return nil
		},
	}
}

func newGamePlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players [game-id]",
		Short: "Show the room's roster",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(args)
			if err != nil {
				return err
			}

			var result GameState

			if err := client.Get("/api/v1/games/"+gameID, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if cfg.Output == "json" {
				out.Print(result.Players)
			} else {
				for _, p := range result.Players {
					out.printPlayer(p)
				}
			}
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join an existing game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := args[0]

			req := map[string]string{
				"player_name": name,
				"color":       color,
			}
			// Rejoining the same room with the same name re-claims the
			// old seat via the saved token
			if cfg.Session != nil && cfg.Session.GameID == gameID && cfg.Session.Name == name {
				req["token"] = cfg.Session.Token
			}

			var result JoinResult

			if err := client.Post("/api/v1/games/"+gameID+"/join", req, &result); err != nil {
				return err
			}

			token := result.Token
			if token == "" && cfg.Session != nil {
				token = cfg.Session.Token
			}
			if err := cfg.SaveSession(Session{
				GameID:   result.Game.GameID,
				PlayerID: result.Player.PlayerID,
				Name:     result.Player.Name,
				Token:    token,
			}); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&color, "color", "", "Player color (hex)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <row> <col> <value>",
		Short: "Place a value on the board (0 clears a cell)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(nil)
			if err != nil {
				return err
			}
			playerID, err := sessionPlayerID()
			if err != nil {
				return err
			}

			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid row: %w", err)
			}
			col, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid col: %w", err)
			}
			value, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid value: %w", err)
			}

			req := map[string]any{
				"player_id": playerID,
				"row":       row,
				"column":    col,
				"value":     value,
			}
			var result MoveResult

			if err := client.Post("/api/v1/games/"+gameID+"/moves", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint <row> <col>",
		Short: "Reveal the correct value for a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(nil)
			if err != nil {
				return err
			}
			playerID, err := sessionPlayerID()
			if err != nil {
				return err
			}

			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid row: %w", err)
			}
			col, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid col: %w", err)
			}

			req := map[string]any{
				"player_id": playerID,
				"row":       row,
				"column":    col,
			}
			var result HintResult

			if err := client.Post("/api/v1/games/"+gameID+"/hints", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(nil)
			if err != nil {
				return err
			}
			playerID, err := sessionPlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID}
			var result LeaveResult

			if err := client.Post("/api/v1/games/"+gameID+"/leave", req, &result); err != nil {
				return err
			}

			if err := cfg.ClearSession(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			out := NewOutput(cfg.Output)
			if result.GameDeleted {
				out.PrintMessage("Left game; room was deleted")
			} else {
				out.PrintMessage("Left game")
			}
			return nil
		},
	}
}
