package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(provideLoginLimiter),
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
	Redis *redis.Client `optional:"true"`
}

// provideLoginLimiter shares buckets through redis when the kv store runs on
// redis.
func provideLoginLimiter(p Params) *LoginLimiter {
	var bucket Bucket
	if p.Redis != nil {
		bucket = NewTokenBucket(p.Redis)
	} else {
		bucket = NewMemoryBucket(p.Clock)
	}
	return NewLoginLimiter(p.Log, bucket, p.Cfg.LoginRatePerMinute, p.Cfg.LoginBurst)
}
