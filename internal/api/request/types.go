package request

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Difficulty string `json:"difficulty"`
	PlayerName string `json:"player_name"`
	Color      string `json:"color,omitempty"`
}

// JoinGameRequest is the request body for joining a game. Token re-claims an
// existing identity with the same name.
type JoinGameRequest struct {
	PlayerName string `json:"player_name"`
	Color      string `json:"color,omitempty"`
	Token      string `json:"token,omitempty"`
}

// MoveRequest is the request body for submitting a move
type MoveRequest struct {
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	Value    int    `json:"value"`
}

// HintRequest is the request body for requesting a hint
type HintRequest struct {
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
}

// LeaveRequest is the request body for leaving a game
type LeaveRequest struct {
	PlayerID string `json:"player_id"`
}
