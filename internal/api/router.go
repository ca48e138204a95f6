// Package api wires the REST endpoints and the websocket room endpoint onto
// one router.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playgrid/sudoku-together/internal/api/handler"
	"github.com/playgrid/sudoku-together/internal/api/middleware"
	"github.com/playgrid/sudoku-together/internal/services/game"
	"github.com/playgrid/sudoku-together/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController game.ControllerInterface
	HubManager     *ws.HubManager
	WSHandler      *ws.Handler
}

// NewRouter creates a router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.ListAvailable).Methods(http.MethodGet)
	api.HandleFunc("/games/{gameID}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{gameID}/join", gameHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/games/{gameID}/moves", gameHandler.Move).Methods(http.MethodPost)
	api.HandleFunc("/games/{gameID}/hints", gameHandler.Hint).Methods(http.MethodPost)
	api.HandleFunc("/games/{gameID}/leave", gameHandler.Leave).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Room endpoint; upgrades bypass the JSON middleware chain
	r.HandleFunc("/ws/game/{gameID}", cfg.WSHandler.ServeGame)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
