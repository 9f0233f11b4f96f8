// Package app opens the shared infrastructure used by the API and worker binaries.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/backend-food/internal/config"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/notify"
	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/ratelimit"
)

// Options tunes Open for each binary.
type Options struct {
	// ApplicationName is reported to Postgres as application_name.
	ApplicationName string
	// RedisMetrics enables redisotel metrics alongside tracing.
	RedisMetrics bool
}

// Dependencies are the long-lived clients shared across modules.
type Dependencies struct {
	Config       *config.Config
	Logger       zerolog.Logger
	DB           *pgxpool.Pool
	Queries      *dbgen.Queries
	Redis        *redis.Client
	LimiterStore limiter.Store
	Tasks        *asynq.Client
	Kafka        *events.KafkaPublisher
	Bus          *events.Bus

	closers []func() error
}

// Open connects to Postgres and Redis, applies migrations when AUTO_MIGRATE is set, and builds
// the event bus with its Kafka publisher and notifiers. Call Close when done.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Dependencies, error) {
	d := &Dependencies{Config: cfg, Logger: logger}

	if cfg.AutoMigrate {
		if err := (db.Migrator{DatabaseURL: cfg.DatabaseURL}).Up(); err != nil {
			return nil, err
		}
		logger.Info().Msg("migrations applied")
	}

	pool, err := openPool(ctx, cfg.DatabaseURL, opts.ApplicationName)
	if err != nil {
		return nil, err
	}
	d.DB = pool
	d.Queries = dbgen.New(pool)
	d.closers = append(d.closers, func() error { pool.Close(); return nil })

	rdb, err := openRedis(ctx, cfg.RedisURL, opts.RedisMetrics, logger)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	d.Redis = rdb
	d.closers = append(d.closers, rdb.Close)

	if d.LimiterStore, err = ratelimit.NewStore(rdb); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("limiter store: %w", err)
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("parse asynq redis uri: %w", err)
	}
	d.Tasks = asynq.NewClient(redisOpt)
	d.closers = append(d.closers, d.Tasks.Close)

	d.Bus = &events.Bus{
		Store: d.Queries,
		Notifiers: []events.Notifier{
			notify.OrderNotifier{Queue: d.Tasks, MaxRetry: cfg.PushMaxRetry},
		},
	}
	if len(cfg.KafkaBrokers) > 0 {
		d.Kafka = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		d.Bus.Publisher = d.Kafka
		d.closers = append(d.closers, d.Kafka.Close)
	}
	if mailer := notify.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom); mailer != nil && cfg.SupportEmailTo != "" {
		d.Bus.Notifiers = append(d.Bus.Notifiers, notify.SupportEmailNotifier{Mail: mailer, To: cfg.SupportEmailTo})
	} else {
		logger.Info().Msg("support email notifications disabled")
	}
	return d, nil
}

// Close releases every opened client in reverse order.
func (d *Dependencies) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func openPool(ctx context.Context, url, appName string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if appName != "" {
		if poolConfig.ConnConfig.RuntimeParams == nil {
			poolConfig.ConnConfig.RuntimeParams = map[string]string{}
		}
		poolConfig.ConnConfig.RuntimeParams["application_name"] = appName
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func openRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
