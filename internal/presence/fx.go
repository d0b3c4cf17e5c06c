package presence

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/storefront/internal/config"
	obsmetrics "github.com/smallbiznis/storefront/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("presence",
	fx.Provide(NewRedisClient),
	fx.Provide(provideStore),
	fx.Provide(provideTrackerConfig),
)

// NewRedisClient builds the shared redis client and ties its lifetime to the
// fx application.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return client.Close()
		},
	})

	return client
}

type storeParams struct {
	fx.In

	Client  *redis.Client
	Cfg     config.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func provideStore(p storeParams) Store {
	return WithMetrics(NewRedisStore(p.Client, p.Cfg.Presence.TTL), p.Metrics)
}

func provideTrackerConfig(cfg config.Config) TrackerConfig {
	return TrackerConfig{
		TrackInterval:  cfg.Presence.TrackInterval,
		PollInterval:   cfg.Presence.PollInterval,
		ReleaseTimeout: cfg.Presence.ReleaseTimeout,
	}
}
