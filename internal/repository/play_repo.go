package repository

import (
	"context"

	"quizarena/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlayRepo handles MongoDB operations for play records. A play record is
// keyed by the (quizId, userId) pair; Upsert keeps at most one per pair.
type PlayRepo interface {
	Get(ctx context.Context, quizID, userID string) (*model.Play, error)
	Upsert(ctx context.Context, play *model.Play) error

	// TopByQuiz returns the per-quiz leaderboard, highest score first.
	TopByQuiz(ctx context.Context, quizID string, limit int) ([]*model.Play, error)

	// ListByUser returns a user's plays, most recent first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Play, error)
}

type playRepo struct {
	collection *mongo.Collection
}

// NewPlayRepo creates a new play repository
func NewPlayRepo(db *mongo.Database) PlayRepo {
	return &playRepo{
		collection: db.Collection("plays"),
	}
}

func (r *playRepo) filter(quizID, userID string) bson.M {
	return bson.M{"quizId": quizID, "userId": userID}
}

func (r *playRepo) Get(ctx context.Context, quizID, userID string) (*model.Play, error) {
	var play model.Play
	err := r.collection.FindOne(ctx, r.filter(quizID, userID)).Decode(&play)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &play, nil
}

func (r *playRepo) Upsert(ctx context.Context, play *model.Play) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, r.filter(play.QuizID, play.UserID), play, opts)
	return err
}

func (r *playRepo) TopByQuiz(ctx context.Context, quizID string, limit int) ([]*model.Play, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"quizId": quizID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plays []*model.Play
	if err := cursor.All(ctx, &plays); err != nil {
		return nil, err
	}
	return plays, nil
}

func (r *playRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Play, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plays []*model.Play
	if err := cursor.All(ctx, &plays); err != nil {
		return nil, err
	}
	return plays, nil
}
