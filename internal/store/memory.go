package store

import (
	"context"
	"encoding/json"
	"sync"

	"numduel/internal/model"
)

// Memory is an in-process GameStore with the same conditional-update
// semantics as the Redis store. Used in tests and for local development
// without a Redis instance. Records are kept as JSON so callers get copies,
// never aliases into the store.
type Memory struct {
	mu        sync.Mutex
	games     map[string][]byte
	positions map[string]map[model.SlotID]model.Position
}

// NewMemory creates an empty in-memory game store.
func NewMemory() *Memory {
	return &Memory{
		games:     make(map[string][]byte),
		positions: make(map[string]map[model.SlotID]model.Position),
	}
}

func (m *Memory) Get(ctx context.Context, id string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	for slot, pos := range m.positions[id] {
		seat := game.Slot(slot)
		seat.X = pos.X
		seat.Y = pos.Y
	}
	return &game, nil
}

func (m *Memory) Create(ctx context.Context, game *model.Game) (bool, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[game.ID]; exists {
		return false, nil
	}
	m.games[game.ID] = data
	return true, nil
}

func (m *Memory) Update(ctx context.Context, id string, mutate Mutation) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}

	write, err := mutate(&game)
	if err != nil {
		return nil, err
	}
	if write {
		updated, err := json.Marshal(&game)
		if err != nil {
			return nil, err
		}
		m.games[id] = updated
	}
	return &game, nil
}

func (m *Memory) SetPosition(ctx context.Context, id string, slot model.SlotID, pos model.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.positions[id] == nil {
		m.positions[id] = make(map[model.SlotID]model.Position)
	}
	m.positions[id][slot] = pos
	return nil
}
