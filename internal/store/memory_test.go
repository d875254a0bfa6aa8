package store

import (
	"context"
	"errors"
	"testing"

	"numduel/internal/model"
)

func TestMemory_Create(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	created, err := mem.Create(ctx, &model.Game{ID: "g1", Status: model.StatusWaitingPlayers})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created {
		t.Fatal("Expected first create to succeed")
	}

	created, err = mem.Create(ctx, &model.Game{ID: "g1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created {
		t.Error("Expected duplicate create to report false")
	}
}

func TestMemory_Update(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	t.Run("missing record", func(t *testing.T) {
		_, err := mem.Update(ctx, "nope", func(g *model.Game) (bool, error) {
			return true, nil
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	if _, err := mem.Create(ctx, &model.Game{ID: "g2", Status: model.StatusWaitingPlayers}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("mutation error leaves record unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := mem.Update(ctx, "g2", func(g *model.Game) (bool, error) {
			g.Status = model.StatusFinished
			return true, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected mutation error, got %v", err)
		}
		game, _ := mem.Get(ctx, "g2")
		if game.Status != model.StatusWaitingPlayers {
			t.Errorf("Expected record unchanged, got status %s", game.Status)
		}
	})

	t.Run("skipped write leaves record unchanged", func(t *testing.T) {
		game, err := mem.Update(ctx, "g2", func(g *model.Game) (bool, error) {
			g.Status = model.StatusFinished
			return false, nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		// The caller sees its local mutation but the store keeps the original
		if game.Status != model.StatusFinished {
			t.Errorf("Expected caller view finished, got %s", game.Status)
		}
		stored, _ := mem.Get(ctx, "g2")
		if stored.Status != model.StatusWaitingPlayers {
			t.Errorf("Expected stored record unchanged, got %s", stored.Status)
		}
	})

	t.Run("applied write is visible", func(t *testing.T) {
		_, err := mem.Update(ctx, "g2", func(g *model.Game) (bool, error) {
			g.Player1.Username = "alice"
			return true, nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		stored, _ := mem.Get(ctx, "g2")
		if stored.Player1.Username != "alice" {
			t.Errorf("Expected alice, got %q", stored.Player1.Username)
		}
	})
}

func TestMemory_Positions(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if _, err := mem.Create(ctx, &model.Game{ID: "g3"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := mem.SetPosition(ctx, "g3", model.SlotPlayer1, model.Position{X: 1, Y: 2}); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if err := mem.SetPosition(ctx, "g3", model.SlotPlayer1, model.Position{X: 3, Y: 4}); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}

	game, err := mem.Get(ctx, "g3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if game.Player1.X != 3 || game.Player1.Y != 4 {
		t.Errorf("Expected merged position (3, 4), got (%v, %v)", game.Player1.X, game.Player1.Y)
	}
	if game.Player2.X != 0 || game.Player2.Y != 0 {
		t.Errorf("Expected untouched player2 position, got (%v, %v)", game.Player2.X, game.Player2.Y)
	}
}
