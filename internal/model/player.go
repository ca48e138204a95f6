package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a participant in one game. Players belong to exactly one
// game; joining another game creates a new Player.
type Player struct {
	ID     PlayerID
	GameID GameID
	Name   string // display name, unique within a game
	Color  string // hex color used to attribute moves visually
	IsHost bool   // exactly one host per game, the creator

	// TokenHash is the bcrypt hash of the opaque token issued at
	// creation/join, required to re-claim this identity. The plaintext
	// token is returned once and never stored.
	TokenHash string

	CreatedAt  time.Time
	LastActive time.Time
}

// DefaultHostColor and DefaultGuestColor match the colors the web client
// falls back to when none is supplied.
const (
	DefaultHostColor  = "#3498db"
	DefaultGuestColor = "#e74c3c"
)

// GuestPalette is cycled through when guests don't pick a color, so players
// in one room stay visually distinct.
var GuestPalette = []string{
	DefaultGuestColor,
	"#2ecc71",
	"#9b59b6",
	"#f39c12",
	"#1abc9c",
	"#e67e22",
	"#34495e",
	"#d35400",
	"#16a085",
}

// PickGuestColor returns the first palette color not already used by the
// roster, or the default guest color when the palette is exhausted.
func PickGuestColor(roster []*Player) string {
	used := make(map[string]bool, len(roster))
	for _, p := range roster {
		used[p.Color] = true
	}
	for _, c := range GuestPalette {
		if !used[c] {
			return c
		}
	}
	return DefaultGuestColor
}
