package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"plancheck/internal/model"
)

// RunRepo handles MongoDB operations for validation runs
type RunRepo interface {
	Save(ctx context.Context, run *model.ValidationRun) error
	GetByID(ctx context.Context, id string) (*model.ValidationRun, error)
	List(ctx context.Context, limit int64) ([]model.ValidationRun, error)
}

type runRepo struct {
	runs *mongo.Collection
}

// NewRunRepo creates a new run repository
func NewRunRepo(db *mongo.Database) RunRepo {
	return &runRepo{
		runs: db.Collection("validation_runs"),
	}
}

func (r *runRepo) Save(ctx context.Context, run *model.ValidationRun) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, opts)
	return err
}

func (r *runRepo) GetByID(ctx context.Context, id string) (*model.ValidationRun, error) {
	var run model.ValidationRun
	err := r.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) List(ctx context.Context, limit int64) ([]model.ValidationRun, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := r.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []model.ValidationRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
