package middleware

import (
	"context"
	"net/http"
	"strings"

	"numduel/internal/model"
	"numduel/internal/service"

	"github.com/gorilla/mux"
)

type contextKey string

const (
	GameIDKey   contextKey = "gameId"
	SlotKey     contextKey = "slot"
	PlayerIDKey contextKey = "playerId"
)

// AuthMiddleware resolves a player token to the (game, slot) pair it is
// scoped to before any game action reaches the service layer.
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequirePlayer validates the player JWT from the Authorization header or
// query param and rejects tokens issued for a different game than the one
// in the path.
func (m *AuthMiddleware) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			// Try query param for WebSocket-style clients
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidatePlayerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		if id, ok := mux.Vars(r)["id"]; ok && id != claims.GameID {
			http.Error(w, `{"error":"token not valid for this game"}`, http.StatusForbidden)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, GameIDKey, claims.GameID)
		ctx = context.WithValue(ctx, SlotKey, claims.Slot)
		ctx = context.WithValue(ctx, PlayerIDKey, claims.PlayerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetGameID extracts the token's game id from context.
func GetGameID(ctx context.Context) string {
	if v := ctx.Value(GameIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetSlot extracts the caller's seat from context.
func GetSlot(ctx context.Context) model.SlotID {
	if v := ctx.Value(SlotKey); v != nil {
		return v.(model.SlotID)
	}
	return ""
}

// GetPlayerID extracts the player id from context.
func GetPlayerID(ctx context.Context) string {
	if v := ctx.Value(PlayerIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
