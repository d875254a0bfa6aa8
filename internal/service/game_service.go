package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	mathrand "math/rand"
	"time"

	"numduel/internal/config"
	"numduel/internal/model"
	"numduel/internal/repository"
	"numduel/internal/store"

	"github.com/google/uuid"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrGameNotFound = errors.New("game not found")
	ErrGameFull     = errors.New("game is full")
	ErrGameFinished = errors.New("game has already finished")
	ErrWrongPhase   = errors.New("action not allowed in current game state")
	ErrInvalidInput = errors.New("invalid input")
)

// GameService implements the game session state machine: seat assignment,
// readiness, guess arbitration, position relay and state reads. It holds no
// game state itself; every call reads and conditionally writes the shared
// store record.
type GameService struct {
	store       store.GameStore
	repo        repository.GameRepo
	authSvc     *AuthService
	broadcaster Broadcaster

	targetMin int
	targetMax int
	duration  time.Duration
}

// NewGameService creates a new game service.
func NewGameService(gameStore store.GameStore, repo repository.GameRepo, authSvc *AuthService, cfg *config.Config) *GameService {
	return &GameService{
		store:     gameStore,
		repo:      repo,
		authSvc:   authSvc,
		targetMin: cfg.TargetMin,
		targetMax: cfg.TargetMax,
		duration:  cfg.GameDuration,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events.
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateGame mints a fresh game id and stores an empty record for it.
// Joining an id nobody created also works; this just hands out a code that
// is known to be unused.
func (s *GameService) CreateGame(ctx context.Context) (string, error) {
	id, err := s.generateGameID(ctx)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Create(ctx, s.newGame(id)); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return id, nil
}

func (s *GameService) newGame(id string) *model.Game {
	return &model.Game{
		ID:            id,
		Status:        model.StatusWaitingPlayers,
		CorrectNumber: s.randTarget(),
		CreatedAt:     time.Now().UTC(),
	}
}

func (s *GameService) randTarget() int {
	return s.targetMin + mathrand.Intn(s.targetMax-s.targetMin+1)
}

// Join claims a seat for username in the given game, creating the game on
// first contact with an unknown id. Rejoining with a username that already
// holds a seat returns that same seat. The seat claim and the advance to
// waiting_ready are one conditional update, so two concurrent joiners can
// never end up in the same seat.
func (s *GameService) Join(ctx context.Context, gameID, username string) (*model.JoinResponse, error) {
	if gameID == "" || username == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if existing == nil {
		// Lazy creation; losing the create race to another joiner is fine,
		// the claim below runs against whichever record won.
		if _, err := s.store.Create(ctx, s.newGame(gameID)); err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}
	}

	var slot model.SlotID
	claim := func(g *model.Game) (bool, error) {
		if g.Status == model.StatusFinished {
			return false, ErrGameFinished
		}
		if taken, ok := g.SlotOf(username); ok {
			slot = taken
			return false, nil // Idempotent rejoin, nothing to write
		}
		switch {
		case g.Player1.Username == "":
			slot = model.SlotPlayer1
			g.Player1.Username = username
		case g.Player2.Username == "":
			slot = model.SlotPlayer2
			g.Player2.Username = username
		default:
			return false, ErrGameFull
		}
		if g.BothClaimed() && g.Status == model.StatusWaitingPlayers {
			g.Status = model.StatusWaitingReady
		}
		return true, nil
	}

	game, err := s.store.Update(ctx, gameID, claim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	playerID := "p_" + uuid.New().String()[:8]
	token, err := s.authSvc.GeneratePlayerToken(gameID, slot, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToGame(gameID, "player_joined", map[string]interface{}{
			"slot":     slot,
			"username": username,
		})
	}

	return &model.JoinResponse{
		Slot:     slot,
		PlayerID: playerID,
		Token:    token,
		Game:     game,
	}, nil
}

// SetReady marks the caller's seat ready and, once both seats are ready,
// transitions the game to playing with start/end times stamped in the same
// conditional update. If a concurrent ready call already performed the
// transition, this call observes playing and reports success without
// restamping.
func (s *GameService) SetReady(ctx context.Context, gameID string, slot model.SlotID) (*model.ReadyResponse, error) {
	if slot == "" {
		return nil, ErrNotLoggedIn
	}

	var started, stamped bool
	mark := func(g *model.Game) (bool, error) {
		started, stamped = false, false
		switch g.Status {
		case model.StatusPlaying:
			// The other seat's ready call won the stamping race
			started = true
			return false, nil
		case model.StatusWaitingReady:
		default:
			return false, ErrWrongPhase
		}

		seat := g.Slot(slot)
		if seat.Ready && !g.BothReady() {
			return false, nil // Repeat call, still waiting on the opponent
		}
		seat.Ready = true
		if g.BothReady() {
			now := time.Now().UTC()
			end := now.Add(s.duration)
			g.Status = model.StatusPlaying
			g.StartTime = &now
			g.EndTime = &end
			started, stamped = true, true
		}
		return true, nil
	}

	game, err := s.store.Update(ctx, gameID, mark)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	if stamped && s.broadcaster != nil {
		s.broadcaster.BroadcastToGame(gameID, "game_started", map[string]interface{}{
			"startTime": game.StartTime,
			"endTime":   game.EndTime,
		})
	}

	return &model.ReadyResponse{Started: started}, nil
}

// Guess compares the caller's guess against the hidden target. A miss
// mutates nothing and returns a directional hint. An exact match declares
// the caller the winner in a single conditional finished+winner transition,
// so two simultaneous correct guesses can never both win: the loser of that
// race observes finished and gets ErrWrongPhase.
func (s *GameService) Guess(ctx context.Context, gameID string, slot model.SlotID, guess int) (*model.GuessResponse, error) {
	if slot == "" {
		return nil, ErrNotLoggedIn
	}

	var won bool
	var hint string
	arbitrate := func(g *model.Game) (bool, error) {
		won, hint = false, ""
		if g.Status != model.StatusPlaying {
			return false, ErrWrongPhase
		}
		if guess == g.CorrectNumber {
			g.Status = model.StatusFinished
			g.Winner = slot
			won = true
			return true, nil
		}
		if guess < g.CorrectNumber {
			hint = "higher"
		} else {
			hint = "lower"
		}
		return false, nil
	}

	game, err := s.store.Update(ctx, gameID, arbitrate)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	if !won {
		return &model.GuessResponse{
			Correct: false,
			Hint:    hint,
			Message: fmt.Sprintf("Incorrect. Try a %s number.", hint),
		}, nil
	}

	s.archive(ctx, game)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToGame(gameID, "game_finished", map[string]interface{}{
			"winner": game.Winner,
		})
	}

	return &model.GuessResponse{
		Correct: true,
		Winner:  game.Winner,
		Message: "Correct guess! You win!",
	}, nil
}

// archive copies a finished game to MongoDB. Best effort: the win already
// happened in the store, so an archive failure is logged, not surfaced.
func (s *GameService) archive(ctx context.Context, game *model.Game) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Archive(ctx, game); err != nil {
		log.Printf("Failed to archive game %s: %v", game.ID, err)
	}
}

// UpdatePosition overwrites the caller's last-known coordinate. Pure
// last-write-wins, no phase check and no bounds validation.
func (s *GameService) UpdatePosition(ctx context.Context, gameID string, slot model.SlotID, pos model.Position) error {
	if slot == "" {
		return ErrNotLoggedIn
	}

	game, err := s.store.Get(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return ErrGameNotFound
	}

	if err := s.store.SetPosition(ctx, gameID, slot, pos); err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOpponent(gameID, slot, "opponent_moved", map[string]interface{}{
			"slot": slot,
			"x":    pos.X,
			"y":    pos.Y,
		})
	}
	return nil
}

// GetState returns the full current record, hidden target included, to an
// established caller.
func (s *GameService) GetState(ctx context.Context, gameID string, slot model.SlotID) (*model.Game, error) {
	if slot == "" {
		return nil, ErrNotLoggedIn
	}

	game, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// GetResult returns an archived game from MongoDB.
func (s *GameService) GetResult(ctx context.Context, gameID string) (*model.Game, error) {
	if s.repo == nil {
		return nil, ErrGameNotFound
	}
	game, err := s.repo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get archived game: %w", err)
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// generateGameID creates a 6-char alphanumeric code not currently in use.
func (s *GameService) generateGameID(ctx context.Context) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		existing, err := s.store.Get(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return codeStr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique game id")
}
