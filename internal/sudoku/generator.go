// Package sudoku generates playable Sudoku puzzles together with their
// solutions. Generation seeds the three diagonal 3x3 boxes with independent
// random permutations (they cannot conflict with each other by construction)
// and completes the rest of the grid with a backtracking search.
package sudoku

import (
	"github.com/playgrid/sudoku-together/internal/dependencies/random"
	"github.com/playgrid/sudoku-together/internal/model"
)

// Generator produces puzzle/solution pairs
type Generator struct {
	random random.Random
}

// NewGenerator creates a Generator using the given randomness source
func NewGenerator(rnd random.Random) *Generator {
	return &Generator{random: rnd}
}

// Generate produces a puzzle with difficulty-many cells removed and the full
// solution it was derived from. The search over a 9x9 grid always succeeds,
// so there is no error path.
//
// No uniqueness check is performed after removal: a generated puzzle may
// admit solutions other than the returned one.
func (g *Generator) Generate(difficulty model.Difficulty) (puzzle, solution model.Grid) {
	var grid model.Grid

	// Diagonal boxes first: (0,0), (3,3), (6,6)
	for box := 0; box < model.GridSize; box += model.BoxSize {
		g.fillBox(&grid, box, box)
	}

	Solve(&grid)
	solution = grid

	puzzle = solution
	g.removeCells(&puzzle, difficulty.RemovalCount())

	return puzzle, solution
}

// fillBox fills one 3x3 box with a random permutation of 1-9
func (g *Generator) fillBox(grid *model.Grid, row, col int) {
	nums := [model.GridSize]int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	g.random.Shuffle(len(nums), func(i, j int) {
		nums[i], nums[j] = nums[j], nums[i]
	})

	idx := 0
	for i := 0; i < model.BoxSize; i++ {
		for j := 0; j < model.BoxSize; j++ {
			grid[row+i][col+j] = nums[idx]
			idx++
		}
	}
}

// removeCells clears count cells chosen uniformly at random without replacement
func (g *Generator) removeCells(grid *model.Grid, count int) {
	cells := make([][2]int, 0, model.GridSize*model.GridSize)
	for i := 0; i < model.GridSize; i++ {
		for j := 0; j < model.GridSize; j++ {
			cells = append(cells, [2]int{i, j})
		}
	}

	g.random.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})

	if count > len(cells) {
		count = len(cells)
	}
	for _, cell := range cells[:count] {
		grid[cell[0]][cell[1]] = 0
	}
}

// Solve completes the grid in place using constraint-checked backtracking:
// scan cells in row-major order, try digits 1-9 at the first empty cell,
// recurse, and unwind on exhaustion. Returns false only if the partial grid
// admits no completion.
func Solve(grid *model.Grid) bool {
	for i := 0; i < model.GridSize; i++ {
		for j := 0; j < model.GridSize; j++ {
			if grid[i][j] != 0 {
				continue
			}
			for num := 1; num <= 9; num++ {
				if !grid.CandidateAllowed(i, j, num) {
					continue
				}
				grid[i][j] = num
				if Solve(grid) {
					return true
				}
				grid[i][j] = 0
			}
			return false
		}
	}
	return true
}
