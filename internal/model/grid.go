package model

// GridSize is the dimension of a Sudoku board
const GridSize = 9

// BoxSize is the dimension of a 3x3 sub-box
const BoxSize = 3

// Grid is a 9x9 Sudoku board. 0 means an empty cell.
// It is a value type: assignment copies, and == compares cell-by-cell.
type Grid [GridSize][GridSize]int

// Get returns the value at the given cell, or 0 if out of bounds
func (g *Grid) Get(row, col int) int {
	if !InBounds(row, col) {
		return 0
	}
	return g[row][col]
}

// Set writes a value at the given cell if it is in bounds
func (g *Grid) Set(row, col, value int) {
	if InBounds(row, col) {
		g[row][col] = value
	}
}

// CountZeros returns the number of empty cells
func (g *Grid) CountZeros() int {
	count := 0
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if g[row][col] == 0 {
				count++
			}
		}
	}
	return count
}

// IsFull returns true if no cell is empty
func (g *Grid) IsFull() bool {
	return g.CountZeros() == 0
}

// CandidateAllowed reports whether value can legally be placed at (row, col):
// it must not already appear in the same row, column, or 3x3 box
func (g *Grid) CandidateAllowed(row, col, value int) bool {
	for x := 0; x < GridSize; x++ {
		if g[row][x] == value {
			return false
		}
		if g[x][col] == value {
			return false
		}
	}

	boxRow := (row / BoxSize) * BoxSize
	boxCol := (col / BoxSize) * BoxSize
	for i := 0; i < BoxSize; i++ {
		for j := 0; j < BoxSize; j++ {
			if g[boxRow+i][boxCol+j] == value {
				return false
			}
		}
	}

	return true
}

// IsValidSolution returns true if the grid is full and every row, column and
// box contains each of the digits 1-9 exactly once
func (g *Grid) IsValidSolution() bool {
	for i := 0; i < GridSize; i++ {
		var rowSeen, colSeen [GridSize + 1]bool
		for j := 0; j < GridSize; j++ {
			rv := g[i][j]
			cv := g[j][i]
			if rv < 1 || rv > 9 || rowSeen[rv] {
				return false
			}
			if cv < 1 || cv > 9 || colSeen[cv] {
				return false
			}
			rowSeen[rv] = true
			colSeen[cv] = true
		}
	}

	for boxRow := 0; boxRow < GridSize; boxRow += BoxSize {
		for boxCol := 0; boxCol < GridSize; boxCol += BoxSize {
			var seen [GridSize + 1]bool
			for i := 0; i < BoxSize; i++ {
				for j := 0; j < BoxSize; j++ {
					v := g[boxRow+i][boxCol+j]
					if v < 1 || v > 9 || seen[v] {
						return false
					}
					seen[v] = true
				}
			}
		}
	}

	return true
}

// Rows returns the grid as nested slices, for JSON wire formats
func (g *Grid) Rows() [][]int {
	rows := make([][]int, GridSize)
	for i := 0; i < GridSize; i++ {
		rows[i] = make([]int, GridSize)
		copy(rows[i], g[i][:])
	}
	return rows
}

// GridFromRows builds a Grid from nested slices. Short or ragged input
// leaves the missing cells at 0.
func GridFromRows(rows [][]int) Grid {
	var g Grid
	for i := 0; i < GridSize && i < len(rows); i++ {
		for j := 0; j < GridSize && j < len(rows[i]); j++ {
			g[i][j] = rows[i][j]
		}
	}
	return g
}

// InBounds returns true if (row, col) addresses a cell on the board
func InBounds(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}
