package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type userRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// nextID hands out sequential numeric ids so both backends share the
// same user id type.
func (r *userRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: usersCollection}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		opts,
	).Decode(&counter)
	return counter.Seq, err
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.CreatedAt = time.Now()
	doc := userDocument{
		ID:            user.ID,
		Email:         user.Email,
		PasswordHash:  user.PasswordHash,
		SecondaryCode: user.SecondaryCode,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Username:      user.Username,
		Phone:         user.Phone,
		CreatedAt:     user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "id", Value: id}})
}

func (r *userRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "resetToken", Value: token},
		{Key: "resetTokenExpiry", Value: expiresAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "resetToken", Value: token}})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "password", Value: passwordHash}}},
		{Key: "$unset", Value: bson.D{{Key: "resetToken", Value: ""}, {Key: "resetTokenExpiry", Value: ""}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]model.User, 0, len(docs))
	for _, d := range docs {
		result = append(result, *d.toModel())
	}
	return result, nil
}
