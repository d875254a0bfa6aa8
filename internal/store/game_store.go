package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"numduel/internal/model"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned by Update when no record exists for the id.
	ErrNotFound = errors.New("game not found")
	// ErrConflict is returned when an optimistic update keeps losing to
	// concurrent writers. Safe for the caller to retry.
	ErrConflict = errors.New("concurrent update conflict")
)

// Mutation inspects and modifies a game record inside a conditional update.
// Returning false skips the write and reports the record as-is (the change
// was already applied by someone else, or is a pure read like a hint).
type Mutation func(g *model.Game) (bool, error)

// GameStore is the shared session store. All game state lives here; no
// component holds state between calls. Transitions with cross-field
// invariants (slot claim, ready start, winner declaration) go through
// Update, which applies the mutation only if the record is unchanged since
// it was read. Positions are plain field-level last-write-wins.
type GameStore interface {
	Get(ctx context.Context, id string) (*model.Game, error)
	Create(ctx context.Context, game *model.Game) (bool, error)
	Update(ctx context.Context, id string, mutate Mutation) (*model.Game, error)
	SetPosition(ctx context.Context, id string, slot model.SlotID, pos model.Position) error
}

type gameStore struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

// NewGameStore creates a Redis-backed game store.
func NewGameStore(client *redis.Client) GameStore {
	return &gameStore{
		client:     client,
		ttl:        24 * time.Hour, // Games expire after 24h
		maxRetries: 3,
	}
}

func (s *gameStore) key(id string) string {
	return fmt.Sprintf("game:%s", id)
}

func (s *gameStore) posKey(id string) string {
	return fmt.Sprintf("game:%s:pos", id)
}

// Get returns the full record with the latest positions merged in, or nil if
// the game does not exist.
func (s *gameStore) Get(ctx context.Context, id string) (*model.Game, error) {
	data, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var game model.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, err
	}
	if err := s.mergePositions(ctx, id, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *gameStore) mergePositions(ctx context.Context, id string, game *model.Game) error {
	fields, err := s.client.HGetAll(ctx, s.posKey(id)).Result()
	if err != nil {
		return err
	}
	for slot, raw := range fields {
		var pos model.Position
		if err := json.Unmarshal([]byte(raw), &pos); err != nil {
			continue
		}
		seat := game.Slot(model.SlotID(slot))
		seat.X = pos.X
		seat.Y = pos.Y
	}
	return nil
}

// Create stores a fresh record only if none exists yet. Returns false when a
// concurrent creator got there first.
func (s *gameStore) Create(ctx context.Context, game *model.Game) (bool, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, s.key(game.ID), data, s.ttl).Result()
}

// Update runs mutate against the current record under an optimistic WATCH
// transaction: the write lands only if the record is untouched since the
// read, otherwise the whole attempt is retried. After maxRetries lost races
// it surfaces ErrConflict.
func (s *gameStore) Update(ctx context.Context, id string, mutate Mutation) (*model.Game, error) {
	key := s.key(id)
	var result *model.Game

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var game model.Game
		if err := json.Unmarshal([]byte(data), &game); err != nil {
			return err
		}

		write, err := mutate(&game)
		if err != nil {
			return err
		}
		if !write {
			result = &game
			return nil
		}

		updated, err := json.Marshal(&game)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = &game
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue // Lost the race, re-read and retry
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrConflict
}

// SetPosition overwrites a slot's coordinate unconditionally. Positions have
// no cross-field invariant, so no WATCH guard is needed.
func (s *gameStore) SetPosition(ctx context.Context, id string, slot model.SlotID, pos model.Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.posKey(id), string(slot), data).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, s.posKey(id), s.ttl).Err()
}
