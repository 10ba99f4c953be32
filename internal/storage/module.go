package storage

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/storage/mongo"
	"github.com/polkiloo/orderdesk/internal/storage/postgres"
)

// Module wires the store backend selected by DATABASE_URI and its repositories.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.OrderStore { return f.Orders() },
		func(f repository.Factory) repository.BlacklistStore { return f.Blacklist() },
		func(f repository.Factory) repository.UserRepository { return f.Users() },
		func(f repository.Factory) repository.SubscriptionStore { return f.Subscriptions() },
	),
	fx.Invoke(registerLifecycle),
)

type factoryParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// IsMongoURI reports whether dsn selects the MongoDB backend.
func IsMongoURI(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

var (
	openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (repository.Factory, error) {
		s, err := postgres.New(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	openMongo = func(ctx context.Context, uri, database string, logger *slog.Logger) (repository.Factory, error) {
		s, err := mongo.New(ctx, uri, database, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
)

func newFactory(p factoryParams) (repository.Factory, error) {
	if IsMongoURI(p.Config.DatabaseURI) {
		p.Logger.Info("using mongodb store")
		return openMongo(p.Ctx, p.Config.DatabaseURI, p.Config.DatabaseName, p.Logger)
	}
	p.Logger.Info("using postgres store")
	return openPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, factory repository.Factory) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			factory.Close()
			return nil
		},
	})
}
