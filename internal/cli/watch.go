package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch [game-id]",
		Short: "Stream live room events over a websocket",
		Long: `Connect to the game's websocket endpoint and stream events in real-time.

Events include:
  - move: A player placed, cleared, or revealed a value
  - player_list_update: The roster changed
  - game_complete: The puzzle was solved
  - player_left: A player left the room
  - cell_focus: A player selected or deselected a cell
  - quick_chat: A player sent a quick-chat message

Press Ctrl+C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := sessionGameID(args)
			if err != nil {
				return err
			}
			return streamEvents(gameID, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// WatchEvent is one received room event with its arrival time
type WatchEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(gameID string, jsonOutput bool) error {
	url := wsURL(cfg.ServerURL) + "/ws/game/" + gameID

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	// Keep the seat alive while watching
	if cfg.Session != nil && cfg.Session.GameID == gameID {
		go heartbeatLoop(conn, cfg.Session.PlayerID)
	}

	if !jsonOutput {
		fmt.Printf("Connected to game %s\n", gameID)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			if !jsonOutput {
				fmt.Println("\nDisconnected")
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			continue
		}
		printEvent(envelope.Type, raw, jsonOutput)
	}
}

// heartbeatLoop periodically reports activity so the inactivity reaper
// doesn't collect the room while it is being watched
func heartbeatLoop(conn *websocket.Conn, playerID string) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		msg := map[string]string{"type": "heartbeat", "player_id": playerID}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func printEvent(event string, data []byte, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := WatchEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
	} else {
		if event == "heartbeat" {
			return
		}
		timestamp := now.Format("2006-01-02 15:04:05")
		displayData := string(data)
		if len(displayData) > 100 {
			displayData = displayData[:100] + "..."
		}
		fmt.Printf("[%s] %s: %s\n", timestamp, event, displayData)
	}
}

// wsURL converts an http(s) base URL to its ws(s) form
func wsURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	if strings.HasPrefix(base, "https://") {
		return "wss://" + strings.TrimPrefix(base, "https://")
	}
	return "ws://" + strings.TrimPrefix(base, "http://")
}
