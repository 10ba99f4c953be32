package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

const (
	activeCollection        = "active_orders"
	archiveCollection       = "shipped_orders"
	historyCollection       = "order_history"
	transitionsCollection   = "order_transitions"
	blacklistCollection     = "blacklist"
	usersCollection         = "users"
	countersCollection      = "counters"
	subscriptionsCollection = "subscriptions"
)

// Store implements repository.Factory on MongoDB, keeping the document
// layout of the original dashboard collections.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

var _ repository.Factory = (*Store)(nil)

// New connects to uri, waits for a successful ping and ensures indexes.
func New(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = 15 * time.Second
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx, nil)
	}
	if err := backoff.Retry(ping, backoff.WithContext(retry, ctx)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := NewWithDatabase(client.Database(database), logger)
	store.client = client
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Info("connected to mongodb", slog.String("database", database))
	return store, nil
}

// NewWithDatabase wraps an existing database handle.
func NewWithDatabase(db *mongo.Database, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		activeCollection: {
			{Keys: bson.D{{Key: "numeroOrden", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "fecha", Value: -1}}},
		},
		archiveCollection: {
			{Keys: bson.D{{Key: "numeroOrden", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "fecha", Value: -1}}},
		},
		historyCollection: {
			{Keys: bson.D{{Key: "numeroOrden", Value: 1}}, Options: unique},
		},
		transitionsCollection: {
			{Keys: bson.D{{Key: "numeroOrden", Value: 1}, {Key: "at", Value: 1}}},
		},
		blacklistCollection: {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: unique},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		subscriptionsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Orders() repository.OrderStore {
	return &orderRepository{
		active:      s.db.Collection(activeCollection),
		archive:     s.db.Collection(archiveCollection),
		history:     s.db.Collection(historyCollection),
		transitions: s.db.Collection(transitionsCollection),
	}
}

func (s *Store) Blacklist() repository.BlacklistStore {
	return &blacklistRepository{coll: s.db.Collection(blacklistCollection)}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{coll: s.db.Collection(usersCollection), counters: s.db.Collection(countersCollection)}
}

func (s *Store) Subscriptions() repository.SubscriptionStore {
	return &subscriptionRepository{coll: s.db.Collection(subscriptionsCollection)}
}

// HealthCheck pings the primary.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.Client().Ping(ctx, nil)
}

// Close disconnects the client created by New.
func (s *Store) Close() {
	if s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Error("mongo disconnect failed", slog.String("error", err.Error()))
	}
}
