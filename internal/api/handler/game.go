package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playgrid/sudoku-together/internal/api/request"
	"github.com/playgrid/sudoku-together/internal/api/response"
	"github.com/playgrid/sudoku-together/internal/model"
	"github.com/playgrid/sudoku-together/internal/services/game"
	"github.com/playgrid/sudoku-together/internal/ws"
)

// GameHandler exposes the game operations over REST. Every state change goes
// through the same controller the websocket path uses, so both ingress paths
// share one per-game critical section, and accepted changes are fanned out
// to any websocket room that exists for the game.
type GameHandler struct {
	controller game.ControllerInterface
	hubs       *ws.HubManager
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller game.ControllerInterface, hubs *ws.HubManager) *GameHandler {
	return &GameHandler{
		controller: controller,
		hubs:       hubs,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerName == "" {
		WriteError(w, NewInvalidRequestError("player_name is required"))
		return
	}

	g, host, token, err := h.controller.CreateGame(r.Context(), model.Difficulty(req.Difficulty), req.PlayerName, req.Color)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateGameResponse{
		Game:   response.GameFromModel(g),
		Player: response.PlayerFromModel(host),
		Token:  token,
	})
}

// ListAvailable handles GET /api/v1/games
func (h *GameHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	available, err := h.controller.ListAvailableGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AvailableGamesFromService(available))
}

// Get handles GET /api/v1/games/{gameID}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameID"])

	g, err := h.controller.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}
	roster, err := h.controller.GetRoster(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}
	moves, err := h.controller.GetMoves(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g, roster, moves))
}

// Join handles POST /api/v1/games/{gameID}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameID"])

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerName == "" {
		WriteError(w, NewInvalidRequestError("player_name is required"))
		return
	}

	g, player, token, err := h.controller.JoinGame(r.Context(), gameID, req.PlayerName, req.Color, req.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastRoster(r, gameID)

	response.JSON(w, http.StatusOK, response.JoinGameResponse{
		Game:   response.GameFromModel(g),
		Player: response.PlayerFromModel(player),
		Token:  token,
	})
}

// Move handles POST /api/v1/games/{gameID}/moves
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameID"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	move, completed, err := h.controller.ApplyMove(r.Context(), gameID, model.PlayerID(req.PlayerID), req.Row, req.Column, req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastMove(gameID, move, completed)

	response.JSON(w, http.StatusOK, response.MoveResponse{
		Move:         response.MoveFromModel(move),
		GameComplete: completed,
	})
}

// Hint handles POST /api/v1/games/{gameID}/hints
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameID"])

	var req request.HintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	move, completed, err := h.controller.ApplyHint(r.Context(), gameID, model.PlayerID(req.PlayerID), req.Row, req.Column)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastMove(gameID, move, completed)

	response.JSON(w, http.StatusOK, response.HintResponse{
		Move:         response.MoveFromModel(move),
		Value:        move.Value,
		GameComplete: completed,
	})
}

// Leave handles POST /api/v1/games/{gameID}/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameID"])

	var req request.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}
	playerID := model.PlayerID(req.PlayerID)

	leftName := ""
	if roster, err := h.controller.GetRoster(r.Context(), gameID); err == nil {
		for _, p := range roster {
			if p.ID == playerID {
				leftName = p.Name
				break
			}
		}
	}

	gameDeleted, err := h.controller.LeavePlayer(r.Context(), gameID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if hub := h.hubs.GetHub(gameID); hub != nil {
		hub.BroadcastEvent(ws.PlayerLeftEvent{
			Type:     ws.TypePlayerLeft,
			PlayerID: playerID,
			Name:     leftName,
		})
	}
	if !gameDeleted {
		h.broadcastRoster(r, gameID)
	}

	response.JSON(w, http.StatusOK, response.LeaveResponse{GameDeleted: gameDeleted})
}

// broadcastRoster pushes a fresh roster to the game's websocket room, if one
// is open
func (h *GameHandler) broadcastRoster(r *http.Request, gameID model.GameID) {
	hub := h.hubs.GetHub(gameID)
	if hub == nil {
		return
	}
	if roster, err := h.controller.GetRoster(r.Context(), gameID); err == nil {
		hub.BroadcastEvent(ws.RosterEvent(roster))
	}
}

// broadcastMove pushes an accepted move (and completion, if this move
// finished the board) to the game's websocket room, if one is open
func (h *GameHandler) broadcastMove(gameID model.GameID, move *model.Move, completed bool) {
	hub := h.hubs.GetHub(gameID)
	if hub == nil {
		return
	}
	hub.BroadcastEvent(ws.NewMoveEvent(move))
	if completed {
		hub.BroadcastEvent(ws.CompletionEvent{
			Type:        ws.TypeGameComplete,
			GameID:      gameID,
			CompletedBy: move.PlayerID,
			Timestamp:   move.Timestamp,
		})
	}
}
