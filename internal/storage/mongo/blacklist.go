package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type blacklistRepository struct {
	coll *mongo.Collection
}

func (r *blacklistRepository) List(ctx context.Context) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []blacklistDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	numbers := make([]string, 0, len(docs))
	for _, d := range docs {
		numbers = append(numbers, d.Number)
	}
	return numbers, nil
}

func (r *blacklistRepository) Add(ctx context.Context, number string) error {
	update := bson.D{{Key: "$setOnInsert", Value: blacklistDocument{Number: number, CreatedAt: time.Now()}}}
	_, err := r.coll.UpdateOne(ctx, bson.D{{Key: "number", Value: number}}, update, options.Update().SetUpsert(true))
	return err
}

func (r *blacklistRepository) Remove(ctx context.Context, number string) error {
	_, err := r.coll.DeleteOne(ctx, bson.D{{Key: "number", Value: number}})
	return err
}

func (r *blacklistRepository) Contains(ctx context.Context, number string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "number", Value: number}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
