package model

import "time"

type GameStatus string

const (
	StatusWaitingPlayers GameStatus = "waiting_players"
	StatusWaitingReady   GameStatus = "waiting_ready"
	StatusPlaying        GameStatus = "playing"
	StatusFinished       GameStatus = "finished"
)

// SlotID identifies one of the two player seats in a game.
type SlotID string

const (
	SlotPlayer1 SlotID = "player1"
	SlotPlayer2 SlotID = "player2"
)

// Opponent returns the other seat.
func (s SlotID) Opponent() SlotID {
	if s == SlotPlayer1 {
		return SlotPlayer2
	}
	return SlotPlayer1
}

// Slot is one player seat. Username is empty until claimed and immutable
// afterwards.
type Slot struct {
	Username string  `json:"username,omitempty" bson:"username,omitempty"`
	Ready    bool    `json:"ready" bson:"ready"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
}

// Position is a player's last reported 2D coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Game is the full session record for one two-player match. Status only
// ever moves forward: waiting_players -> waiting_ready -> playing -> finished.
type Game struct {
	ID            string     `json:"id" bson:"_id"`
	Status        GameStatus `json:"status" bson:"status"`
	Player1       Slot       `json:"player1" bson:"player1"`
	Player2       Slot       `json:"player2" bson:"player2"`
	CorrectNumber int        `json:"correctNumber" bson:"correctNumber"`
	StartTime     *time.Time `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Winner        SlotID     `json:"winner,omitempty" bson:"winner,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
}

// Slot returns a pointer to the seat for the given ID.
func (g *Game) Slot(id SlotID) *Slot {
	if id == SlotPlayer1 {
		return &g.Player1
	}
	return &g.Player2
}

// SlotOf returns the seat a username already occupies, if any.
func (g *Game) SlotOf(username string) (SlotID, bool) {
	if username == "" {
		return "", false
	}
	if g.Player1.Username == username {
		return SlotPlayer1, true
	}
	if g.Player2.Username == username {
		return SlotPlayer2, true
	}
	return "", false
}

// BothClaimed reports whether both seats have usernames.
func (g *Game) BothClaimed() bool {
	return g.Player1.Username != "" && g.Player2.Username != ""
}

// BothReady reports whether both seats have signalled ready.
func (g *Game) BothReady() bool {
	return g.Player1.Ready && g.Player2.Ready
}
