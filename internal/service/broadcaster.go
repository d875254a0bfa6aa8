package service

import "numduel/internal/model"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToGame(gameID string, msgType string, payload interface{})
	BroadcastToOpponent(gameID string, slot model.SlotID, msgType string, payload interface{})
}
