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

type orderRepository struct {
	active      *mongo.Collection
	archive     *mongo.Collection
	history     *mongo.Collection
	transitions *mongo.Collection
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})

func listOrders(ctx context.Context, coll *mongo.Collection, filter any) ([]model.Order, error) {
	cursor, err := coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]model.Order, 0)
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListActive(ctx context.Context) ([]model.Order, error) {
	return listOrders(ctx, r.active, bson.D{})
}

func (r *orderRepository) ListArchive(ctx context.Context) ([]model.Order, error) {
	return listOrders(ctx, r.archive, bson.D{})
}

func (r *orderRepository) ListArchiveSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	return listOrders(ctx, r.archive, bson.D{{Key: "fecha", Value: bson.D{{Key: "$gte", Value: since}}}})
}

func (r *orderRepository) ListHistory(ctx context.Context) ([]model.Order, error) {
	return listOrders(ctx, r.history, bson.D{})
}

func (r *orderRepository) FindActiveByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	var doc orderDocument
	err := r.active.FindOne(ctx, bson.D{{Key: "numeroOrden", Value: number}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	order := doc.toModel()
	return &order, nil
}

func (r *orderRepository) InsertActive(ctx context.Context, order model.Order) error {
	if _, err := r.active.InsertOne(ctx, toOrderDocument(order)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) UpdateActiveStatus(ctx context.Context, number string, status model.OrderStatus, label string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "estado", Value: string(status)},
		{Key: "nuevoEstado", Value: label},
	}}}
	res, err := r.active.UpdateOne(ctx, bson.D{{Key: "numeroOrden", Value: number}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteActive(ctx context.Context, number string) error {
	res, err := r.active.DeleteOne(ctx, bson.D{{Key: "numeroOrden", Value: number}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpsertHistory(ctx context.Context, order model.Order) error {
	doc := toOrderDocument(order)
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "hora", Value: doc.TimeOfDay},
			{Key: "pedido", Value: doc.Item},
			{Key: "combo", Value: doc.Combo},
			{Key: "algoMasExtra", Value: doc.Extras},
			{Key: "nombre", Value: doc.CustomerName},
			{Key: "telefono", Value: doc.Phone},
			{Key: "direccionEnvio", Value: doc.Address},
			{Key: "referenciaOcomentario", Value: doc.Reference},
			{Key: "efectivoTarjeta", Value: doc.Payment},
			{Key: "estado", Value: doc.Status},
			{Key: "nuevoEstado", Value: doc.StatusLabel},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "fecha", Value: doc.CreatedAt}}},
	}
	_, err := r.history.UpdateOne(ctx, bson.D{{Key: "numeroOrden", Value: order.Number}}, update, options.Update().SetUpsert(true))
	return err
}

// MirrorActiveToHistory merges the stored active document into history on
// the server, so the copied status is the one current at merge time. An
// order archived in the meantime matches nothing and is left alone.
func (r *orderRepository) MirrorActiveToHistory(ctx context.Context, number string) (bool, error) {
	filter := bson.D{{Key: "numeroOrden", Value: number}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}},
		{{Key: "$merge", Value: bson.D{
			{Key: "into", Value: r.history.Name()},
			{Key: "on", Value: "numeroOrden"},
			{Key: "whenMatched", Value: "merge"},
			{Key: "whenNotMatched", Value: "insert"},
		}}},
	}
	cursor, err := r.active.Aggregate(ctx, pipeline)
	if err != nil {
		return false, err
	}
	if err := cursor.Close(ctx); err != nil {
		return false, err
	}

	active, err := r.active.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return active > 0, nil
}

func (r *orderRepository) InsertArchive(ctx context.Context, order model.Order) (bool, error) {
	if order.RemovedAt == nil {
		now := time.Now()
		order.RemovedAt = &now
	}
	update := bson.D{{Key: "$setOnInsert", Value: toOrderDocument(order)}}
	res, err := r.archive.UpdateOne(ctx, bson.D{{Key: "numeroOrden", Value: order.Number}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *orderRepository) AppendTransition(ctx context.Context, t model.Transition) error {
	_, err := r.transitions.InsertOne(ctx, transitionDocument{
		ID:          t.ID,
		OrderNumber: t.OrderNumber,
		From:        string(t.From),
		To:          string(t.To),
		Label:       t.Label,
		At:          t.At,
	})
	return err
}

func (r *orderRepository) ListTransitions(ctx context.Context, number string) ([]model.Transition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cursor, err := r.transitions.Find(ctx, bson.D{{Key: "numeroOrden", Value: number}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []transitionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]model.Transition, 0, len(docs))
	for _, d := range docs {
		result = append(result, model.Transition{
			ID:          d.ID,
			OrderNumber: d.OrderNumber,
			From:        model.OrderStatus(d.From),
			To:          model.OrderStatus(d.To),
			Label:       d.Label,
			At:          d.At,
		})
	}
	return result, nil
}
