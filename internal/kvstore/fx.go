package kvstore

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/hotelbill/internal/config"
	"github.com/smallbiznis/hotelbill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module selects the backend named by KV_BACKEND. The gorm backend also
// contributes the *gorm.DB to the graph.
func Module(cfg config.Config) fx.Option {
	switch cfg.KVBackend {
	case config.KVBackendGorm:
		return fx.Module("kvstore.gorm",
			db.Module,
			fx.Provide(provideGorm),
		)
	case config.KVBackendRedis:
		return fx.Module("kvstore.redis",
			fx.Provide(provideRedisClient),
			fx.Provide(provideRedis),
		)
	default:
		return fx.Module("kvstore.memory",
			fx.Provide(provideMemory),
		)
	}
}

func provideMemory(cfg config.Config, log *zap.Logger) Store {
	log.Named("kvstore").Warn("using in-memory kv store, state will not survive restarts")
	return withCodec(cfg, NewMemoryStore())
}

func provideGorm(cfg config.Config, conn *gorm.DB, log *zap.Logger) (Store, error) {
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	log.Named("kvstore").Info("kv store ready", zap.String("backend", "gorm"), zap.String("dialect", conn.Dialector.Name()))
	return withCodec(cfg, NewGormStore(conn)), nil
}

// provideRedisClient is shared with the login rate limiter.
func provideRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func provideRedis(cfg config.Config, client *redis.Client, log *zap.Logger) Store {
	log.Named("kvstore").Info("kv store ready", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
	return withCodec(cfg, NewRedisStore(client, cfg.KVKeyPrefix))
}

func withCodec(cfg config.Config, store Store) Store {
	if cfg.KVCompression {
		return NewSnappyStore(store)
	}
	return store
}
