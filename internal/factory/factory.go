package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/playgrid/sudoku-together/internal/dependencies/clock"
	"github.com/playgrid/sudoku-together/internal/dependencies/random"
	"github.com/playgrid/sudoku-together/internal/services/auth"
	"github.com/playgrid/sudoku-together/internal/services/game"
	"github.com/playgrid/sudoku-together/internal/storage"
	"github.com/playgrid/sudoku-together/internal/storage/memory"
	redisstorage "github.com/playgrid/sudoku-together/internal/storage/redis"
	"github.com/playgrid/sudoku-together/internal/sudoku"
	"github.com/playgrid/sudoku-together/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Generator      *sudoku.Generator
	AuthService    *auth.Service
	GameController *game.Controller
	HubManager     *ws.HubManager
	WSHandler      *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, auth.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authService *auth.Service, logger *slog.Logger) *App {
	generator := sudoku.NewGenerator(rnd)
	gameController := game.NewController(store, generator, authService, clk, logger)
	hubManager := ws.NewHubManager(logger)
	wsHandler := ws.NewHandler(gameController, hubManager, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Generator:      generator,
		AuthService:    authService,
		GameController: gameController,
		HubManager:     hubManager,
		WSHandler:      wsHandler,
	}
}
