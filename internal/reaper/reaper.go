// Package reaper periodically deletes games that have been abandoned:
// incomplete, with no move or join activity for longer than the configured
// age. Players and moves are cascade-deleted with the game.
package reaper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/playgrid/sudoku-together/internal/services/game"
	"github.com/playgrid/sudoku-together/internal/ws"
)

// Config controls the sweep cadence
type Config struct {
	// Interval between sweeps
	Interval time.Duration
	// MaxAge is how long a game may sit without activity before deletion
	MaxAge time.Duration
	// DryRun logs what would be deleted without deleting it
	DryRun bool
}

// DefaultConfig returns the production sweep settings
func DefaultConfig() Config {
	return Config{
		Interval: 10 * time.Minute,
		MaxAge:   time.Hour,
		DryRun:   false,
	}
}

// Reaper runs the periodic cleanup task
type Reaper struct {
	controller game.ControllerInterface
	hubs       *ws.HubManager
	config     Config
	logger     *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
	stopped  sync.WaitGroup
}

// New creates a Reaper; call Start to begin sweeping
func New(controller game.ControllerInterface, hubs *ws.HubManager, config Config, logger *slog.Logger) *Reaper {
	return &Reaper{
		controller: controller,
		hubs:       hubs,
		config:     config,
		logger:     logger.With(slog.String("component", "reaper")),
		done:       make(chan struct{}),
	}
}

// Start launches the sweep loop in the background
func (r *Reaper) Start() {
	r.stopped.Add(1)
	go r.run()
}

// Stop halts the loop; safe to call more than once. Blocks until the loop
// has exited, though never mid-sweep.
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
	r.stopped.Wait()
}

func (r *Reaper) run() {
	defer r.stopped.Done()
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.logger.Info("reaper started",
		slog.Duration("interval", r.config.Interval),
		slog.Duration("max_age", r.config.MaxAge),
		slog.Bool("dry_run", r.config.DryRun))

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.done:
			r.logger.Info("reaper stopped")
			return
		}
	}
}

// Sweep runs one cleanup pass
func (r *Reaper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reaped, err := r.controller.CleanupInactive(ctx, r.config.MaxAge, r.config.DryRun)
	if err != nil {
		r.logger.Error("cleanup sweep failed", slog.String("error", err.Error()))
		return
	}

	if r.config.DryRun {
		for _, id := range reaped {
			r.logger.Info("would reap inactive game", slog.String("game_id", string(id)))
		}
		return
	}

	for _, id := range reaped {
		r.hubs.RemoveHub(id)
	}
	r.hubs.CleanupEmptyHubs()

	if len(reaped) > 0 {
		r.logger.Info("sweep finished", slog.Int("reaped", len(reaped)))
	}
}
