package repository

import (
	"context"

	"numduel/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepo archives finished games to MongoDB so results stay readable after
// the live record expires from Redis.
type GameRepo interface {
	Archive(ctx context.Context, game *model.Game) error
	GetByID(ctx context.Context, id string) (*model.Game, error)
}

type gameRepo struct {
	collection *mongo.Collection
}

// NewGameRepo creates a new game archive repository.
func NewGameRepo(db *mongo.Database) GameRepo {
	return &gameRepo{
		collection: db.Collection("games"),
	}
}

func (r *gameRepo) Archive(ctx context.Context, game *model.Game) error {
	// Upsert by id so re-archiving the same game is harmless
	_, err := r.collection.ReplaceOne(
		ctx,
		map[string]interface{}{"_id": game.ID},
		game,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *gameRepo) GetByID(ctx context.Context, id string) (*model.Game, error) {
	var game model.Game
	err := r.collection.FindOne(ctx, map[string]interface{}{"_id": id}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}
