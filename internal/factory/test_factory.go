package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/playgrid/sudoku-together/internal/dependencies/mocks"
	"github.com/playgrid/sudoku-together/internal/dependencies/random"
	"github.com/playgrid/sudoku-together/internal/services/auth"
	"github.com/playgrid/sudoku-together/internal/storage/memory"
	"github.com/playgrid/sudoku-together/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with a controllable clock.
// Puzzle generation keeps the real randomness source; scripting every draw of
// the generator's shuffles would make tests unreadable for no extra coverage.
// Token hashing runs at bcrypt.MinCost to keep the suite fast.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, random.New(), auth.NewWithCost(bcrypt.MinCost), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
