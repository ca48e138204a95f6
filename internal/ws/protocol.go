// Package ws implements the websocket room protocol: one connection per
// client per game, JSON text frames with a "type" tag, fan-out through a
// per-game hub.
package ws

import (
	"encoding/json"
	"time"

	"github.com/playgrid/sudoku-together/internal/model"
)

// Inbound message types
const (
	TypeMove              = "move"
	TypeRequestHint       = "request_hint"
	TypeJoin              = "join"
	TypeRequestPlayerList = "request_player_list"
	TypeGameComplete      = "game_complete"
	TypeLeaveGame         = "leave_game"
	TypeCellFocus         = "cell_focus"
	TypeQuickChat         = "quick_chat"
	TypeHeartbeat         = "heartbeat"
)

// Outbound-only message types
const (
	TypePlayerListUpdate = "player_list_update"
	TypeHintResponse     = "hint_response"
	TypeGameCompleted    = "game_completed"
	TypePlayerLeft       = "player_left"
	TypeError            = "error"
)

// Envelope carries the type tag used for dispatch; the remaining fields are
// decoded per type
type Envelope struct {
	Type string `json:"type"`
}

// MoveMessage is an inbound cell edit request. The cell fields are pointers
// so an absent field is distinguishable from a legitimate zero (row 0,
// column 0, value 0 for a clear).
type MoveMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
	Row      *int           `json:"row"`
	Column   *int           `json:"column"`
	Value    *int           `json:"value"`
}

// HintMessage is an inbound hint request
type HintMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
	Row      *int           `json:"row"`
	Column   *int           `json:"column"`
}

// JoinMessage announces a player joining the room
type JoinMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
}

// CompleteMessage is an explicit completion claim
type CompleteMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
}

// LeaveMessage removes a player from the game
type LeaveMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
	GameID   model.GameID   `json:"game_id"`
}

// FocusMessage is an ephemeral presence signal, rebroadcast but never
// persisted
type FocusMessage struct {
	Type      string         `json:"type"`
	PlayerID  model.PlayerID `json:"player_id"`
	Row       int            `json:"row"`
	Column    int            `json:"column"`
	FocusType string         `json:"focus_type"`
}

// ChatMessage is an ephemeral quick-chat line
type ChatMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
	Message  string         `json:"message"`
}

// HeartbeatMessage is the client's liveness echo
type HeartbeatMessage struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
}

// MoveEvent is broadcast to the room for every accepted move, hints
// included. Clients resolve the player's name and color from the roster.
type MoveEvent struct {
	Type      string         `json:"type"`
	PlayerID  model.PlayerID `json:"player_id"`
	Row       int            `json:"row"`
	Column    int            `json:"column"`
	Value     int            `json:"value"`
	IsCorrect bool           `json:"is_correct"`
	IsHint    bool           `json:"is_hint"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewMoveEvent builds the broadcast form of an accepted move
func NewMoveEvent(move *model.Move) MoveEvent {
	return MoveEvent{
		Type:      TypeMove,
		PlayerID:  move.PlayerID,
		Row:       move.Row,
		Column:    move.Col,
		Value:     move.Value,
		IsCorrect: move.IsCorrect,
		IsHint:    move.IsHint,
		Timestamp: move.Timestamp,
	}
}

// PlayerInfo is one roster entry as sent over the wire
type PlayerInfo struct {
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name"`
	Color    string         `json:"color"`
	IsHost   bool           `json:"is_host"`
}

// PlayerListEvent carries the full roster; deltas are never sent
type PlayerListEvent struct {
	Type    string       `json:"type"`
	Players []PlayerInfo `json:"players"`
}

// HintResponseEvent is sent to the hint requester only
type HintResponseEvent struct {
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  int    `json:"value"`
}

// CompletionEvent is broadcast when the puzzle is solved. Type is
// "game_complete" when a move finished the board and "game_completed" when a
// client's explicit claim was confirmed.
type CompletionEvent struct {
	Type        string         `json:"type"`
	GameID      model.GameID   `json:"game_id"`
	CompletedBy model.PlayerID `json:"completed_by"`
	Timestamp   time.Time      `json:"timestamp"`
}

// PlayerLeftEvent is broadcast when a player leaves the game
type PlayerLeftEvent struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name"`
}

// ChatEvent is the broadcast form of a quick-chat line
type ChatEvent struct {
	Type      string         `json:"type"`
	PlayerID  model.PlayerID `json:"player_id"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

// HeartbeatEvent is the periodic liveness signal sent to each connection
type HeartbeatEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent is sent to the requester only, never broadcast
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RosterEvent builds a player_list_update payload from a roster
func RosterEvent(players []*model.Player) PlayerListEvent {
	infos := make([]PlayerInfo, 0, len(players))
	for _, p := range players {
		infos = append(infos, PlayerInfo{
			PlayerID: p.ID,
			Name:     p.Name,
			Color:    p.Color,
			IsHost:   p.IsHost,
		})
	}
	return PlayerListEvent{Type: TypePlayerListUpdate, Players: infos}
}

// mustMarshal serializes an outbound event. Event structs contain nothing
// that can fail to marshal; a failure here is a programming error.
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
