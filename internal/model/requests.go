package model

// CreateGameResponse is returned when a new game is minted.
type CreateGameResponse struct {
	GameID string `json:"gameId"`
}

// JoinRequest is the request body for joining a game.
type JoinRequest struct {
	Username string `json:"username"`
}

// JoinResponse is returned after a seat is claimed (or re-claimed).
type JoinResponse struct {
	Slot     SlotID `json:"slot"`
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
	Game     *Game  `json:"game"`
}

// ReadyResponse reports whether the game entered the playing phase.
type ReadyResponse struct {
	Started bool `json:"started"`
}

// GuessRequest is the request body for submitting a guess. Guess is a pointer
// so a missing field is distinguishable from guessing zero.
type GuessRequest struct {
	Guess *int `json:"guess"`
}

// GuessResponse reports the outcome of a guess. Hint is "higher" or "lower"
// on a miss; Winner is set only on the winning guess.
type GuessResponse struct {
	Correct bool   `json:"correct"`
	Hint    string `json:"hint,omitempty"`
	Winner  SlotID `json:"winner,omitempty"`
	Message string `json:"message"`
}

// PositionRequest is the request body for reporting a 2D position.
type PositionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}
