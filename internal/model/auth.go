package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims for game-scoped player tokens. The token is the
// caller's capability: it binds a transport-level request to a (game, slot)
// pair so the core never trusts ambient identity.
type PlayerClaims struct {
	GameID   string `json:"gameId"`
	Slot     SlotID `json:"slot"`
	PlayerID string `json:"playerId"`
	jwt.RegisteredClaims
}
