package main

import (
	"github.com/playgrid/sudoku-together/internal/cli"
)

func main() {
	cli.Execute()
}
