package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/playgrid/sudoku-together/internal/dependencies/clock"
	"github.com/playgrid/sudoku-together/internal/model"
	"github.com/playgrid/sudoku-together/internal/services/game"
)

// Handler upgrades connections on the room endpoint and dispatches inbound
// messages to the game controller. Errors are always answered to the
// requester only; the connection stays open through every rejection.
type Handler struct {
	controller game.ControllerInterface
	hubs       *HubManager
	clock      clock.Clock
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates the websocket handler
func NewHandler(controller game.ControllerInterface, hubs *HubManager, clk clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{
		controller: controller,
		hubs:       hubs,
		clock:      clk,
		logger:     logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game is joinable by anyone with the game ID; tokens
			// protect player identity, not the room itself
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeGame handles GET /ws/game/{gameID}: verify the game exists, upgrade,
// subscribe to the room, sync the roster, then pump messages until
// disconnect.
func (h *Handler) ServeGame(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameID"])

	if _, err := h.controller.GetGame(r.Context(), gameID); err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
		} else {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()))
		return
	}

	hub := h.hubs.GetOrCreateHub(gameID)
	client := NewClient(hub, conn, gameID, h.clock.Now())
	hub.Register(client)
	go client.writePump(h.clock)

	// Initial roster sync for this connection only
	if roster, err := h.controller.GetRoster(context.Background(), gameID); err == nil {
		client.SendEvent(RosterEvent(roster))
	}

	client.readPump(h.dispatch)
}

// dispatch routes one inbound frame by its type tag. Operations run with a
// background context: once started, a move or hint always runs to
// completion, even if the connection drops mid-call.
func (h *Handler) dispatch(client *Client, raw []byte) {
	ctx := context.Background()

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "invalid message: not a JSON object"})
		return
	}

	switch env.Type {
	case TypeMove:
		h.handleMove(ctx, client, raw)
	case TypeRequestHint:
		h.handleHint(ctx, client, raw)
	case TypeJoin:
		h.handleJoin(ctx, client, raw)
	case TypeRequestPlayerList:
		h.handlePlayerList(ctx, client)
	case TypeGameComplete:
		h.handleGameComplete(ctx, client, raw)
	case TypeLeaveGame:
		h.handleLeave(ctx, client, raw)
	case TypeCellFocus:
		h.handleFocus(client, raw)
	case TypeQuickChat:
		h.handleChat(client, raw)
	case TypeHeartbeat:
		h.handleHeartbeat(ctx, client, raw)
	default:
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "unknown message type: " + env.Type})
	}
}

func (h *Handler) handleMove(ctx context.Context, client *Client, raw []byte) {
	var msg MoveMessage
	if err := json.Unmarshal(raw, &msg); err != nil ||
		msg.PlayerID == "" || msg.Row == nil || msg.Column == nil || msg.Value == nil {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "move requires player_id, row, column and value"})
		return
	}

	move, completed, err := h.controller.ApplyMove(ctx, client.gameID, msg.PlayerID, *msg.Row, *msg.Column, *msg.Value)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.hub.BroadcastEvent(NewMoveEvent(move))
	if completed {
		client.hub.BroadcastEvent(CompletionEvent{
			Type:        TypeGameComplete,
			GameID:      client.gameID,
			CompletedBy: move.PlayerID,
			Timestamp:   move.Timestamp,
		})
	}
}

func (h *Handler) handleHint(ctx context.Context, client *Client, raw []byte) {
	var msg HintMessage
	if err := json.Unmarshal(raw, &msg); err != nil ||
		msg.PlayerID == "" || msg.Row == nil || msg.Column == nil {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "request_hint requires player_id, row and column"})
		return
	}

	move, completed, err := h.controller.ApplyHint(ctx, client.gameID, msg.PlayerID, *msg.Row, *msg.Column)
	if err != nil {
		h.sendError(client, err)
		return
	}

	// Revealed value goes to the requester; the move itself is public
	client.SendEvent(HintResponseEvent{
		Type:   TypeHintResponse,
		Row:    move.Row,
		Column: move.Col,
		Value:  move.Value,
	})
	client.hub.BroadcastEvent(NewMoveEvent(move))
	if completed {
		client.hub.BroadcastEvent(CompletionEvent{
			Type:        TypeGameComplete,
			GameID:      client.gameID,
			CompletedBy: move.PlayerID,
			Timestamp:   move.Timestamp,
		})
	}
}

func (h *Handler) handleJoin(ctx context.Context, client *Client, raw []byte) {
	var msg JoinMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.PlayerID == "" {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "join requires player_id"})
		return
	}

	roster, err := h.controller.GetRoster(ctx, client.gameID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	// Full roster to the whole room; a delta would assume the newcomer
	// already has prior state
	client.hub.BroadcastEvent(RosterEvent(roster))
}

func (h *Handler) handlePlayerList(ctx context.Context, client *Client) {
	roster, err := h.controller.GetRoster(ctx, client.gameID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	client.SendEvent(RosterEvent(roster))
}

func (h *Handler) handleGameComplete(ctx context.Context, client *Client, raw []byte) {
	var msg CompleteMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.PlayerID == "" {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "game_complete requires player_id"})
		return
	}

	confirmed, err := h.controller.ConfirmComplete(ctx, client.gameID, msg.PlayerID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	client.hub.BroadcastEvent(CompletionEvent{
		Type:        TypeGameCompleted,
		GameID:      confirmed.ID,
		CompletedBy: confirmed.CompletedBy,
		Timestamp:   confirmed.CompletedAt,
	})
}

func (h *Handler) handleLeave(ctx context.Context, client *Client, raw []byte) {
	var msg LeaveMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.PlayerID == "" {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "leave_game requires player_id and game_id"})
		return
	}
	if msg.GameID != "" && msg.GameID != client.gameID {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "game_id does not match this connection"})
		return
	}

	// Name is needed for the departure broadcast, so look it up before the
	// record goes away
	leftName := ""
	if roster, err := h.controller.GetRoster(ctx, client.gameID); err == nil {
		for _, p := range roster {
			if p.ID == msg.PlayerID {
				leftName = p.Name
				break
			}
		}
	}

	gameDeleted, err := h.controller.LeavePlayer(ctx, client.gameID, msg.PlayerID)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.hub.BroadcastEvent(PlayerLeftEvent{
		Type:     TypePlayerLeft,
		PlayerID: msg.PlayerID,
		Name:     leftName,
	})

	if gameDeleted {
		// Leave the hub in place so the departure broadcast drains; it is
		// collected by CleanupEmptyHubs once the connections drop
		return
	}

	if roster, err := h.controller.GetRoster(ctx, client.gameID); err == nil {
		client.hub.BroadcastEvent(RosterEvent(roster))
	}
}

func (h *Handler) handleFocus(client *Client, raw []byte) {
	var msg FocusMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.PlayerID == "" || msg.FocusType == "" {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "cell_focus requires player_id, row, column and focus_type"})
		return
	}
	msg.Type = TypeCellFocus
	client.hub.BroadcastEvent(msg)
}

func (h *Handler) handleChat(client *Client, raw []byte) {
	var msg ChatMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.PlayerID == "" || msg.Message == "" {
		client.SendEvent(ErrorEvent{Type: TypeError, Message: "quick_chat requires player_id and message"})
		return
	}
	client.hub.BroadcastEvent(ChatEvent{
		Type:      TypeQuickChat,
		PlayerID:  msg.PlayerID,
		Message:   msg.Message,
		Timestamp: h.clock.Now(),
	})
}

func (h *Handler) handleHeartbeat(ctx context.Context, client *Client, raw []byte) {
	var msg HeartbeatMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.PlayerID == "" {
		return
	}
	if err := h.controller.TouchPlayer(ctx, msg.PlayerID); err != nil {
		h.logger.Debug("heartbeat touch failed",
			slog.String("player_id", string(msg.PlayerID)),
			slog.String("error", err.Error()))
	}
}

// validationErrors are reported to the requester with their own text; any
// other failure is logged and reported generically
var validationErrors = []error{
	model.ErrGameNotFound,
	model.ErrGameNotComplete,
	model.ErrPlayerNotFound,
	model.ErrPlayerNotInGame,
	model.ErrNameTaken,
	model.ErrInvalidToken,
	model.ErrInvalidDifficulty,
	model.ErrClueCell,
	model.ErrCellSolved,
	model.ErrCellCorrect,
	model.ErrInvalidPosition,
	model.ErrInvalidValue,
}

func (h *Handler) sendError(client *Client, err error) {
	for _, known := range validationErrors {
		if errors.Is(err, known) {
			client.SendEvent(ErrorEvent{Type: TypeError, Message: known.Error()})
			return
		}
	}
	h.logger.Error("operation failed",
		slog.String("game_id", string(client.gameID)),
		slog.String("error", err.Error()))
	client.SendEvent(ErrorEvent{Type: TypeError, Message: "internal server error"})
}
