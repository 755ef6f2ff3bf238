package store

import (
	"context"
	"fmt"

	"github.com/2beens/gympro/internal/config"
	"github.com/2beens/gympro/internal/db"
	"github.com/2beens/gympro/internal/telemetry/metrics"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type OpenParams struct {
	Backend string
	Key     string

	DataDir string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	PostgresHost     string
	PostgresPort     string
	PostgresDBName   string
	PostgresUser     string
	PostgresPassword string

	MemoryCacheSize int

	TracingEnabled bool
	// PromRegistry, when set, gets the db pool collector registered.
	PromRegistry   prometheus.Registerer
	MetricsManager *metrics.Manager
}

// ParamsFromConfig maps the service config and secrets onto OpenParams.
// Metrics and the registry are left for the caller.
func ParamsFromConfig(cfg *config.Config, secrets config.Secrets) OpenParams {
	return OpenParams{
		Backend:          cfg.StoreBackend,
		Key:              cfg.RedisStateKey,
		DataDir:          cfg.DataDir,
		RedisHost:        cfg.RedisHost,
		RedisPort:        cfg.RedisPort,
		RedisPassword:    secrets.RedisPassword,
		PostgresHost:     cfg.PostgresHost,
		PostgresPort:     cfg.PostgresPort,
		PostgresDBName:   cfg.PostgresDBName,
		PostgresUser:     cfg.PostgresUser,
		PostgresPassword: secrets.PostgresPassword,
		MemoryCacheSize:  cfg.MemoryCacheSize,
		TracingEnabled:   secrets.HoneycombEnabled,
	}
}

// Open builds the state store for the configured backend. The returned func
// releases the backend connections.
func Open(ctx context.Context, params OpenParams) (*StateStore, func(), error) {
	key := params.Key
	if key == "" {
		key = DefaultKey
	}

	switch params.Backend {
	case BackendFile, "":
		backend, err := NewFileBackend(params.DataDir, key)
		if err != nil {
			return nil, nil, err
		}
		log.Debugf("state file: %s", backend.Path())
		return New(backend, params.MetricsManager), func() {}, nil

	case BackendMemory:
		backend := NewMemoryBackend(params.MemoryCacheSize, key)
		return New(backend, params.MetricsManager), func() {}, nil

	case BackendRedis:
		rdb := NewRedisClient(NewRedisClientParams{
			Host:           params.RedisHost,
			Port:           params.RedisPort,
			Password:       params.RedisPassword,
			TracingEnabled: params.TracingEnabled,
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		return New(NewRedisBackend(rdb, key), params.MetricsManager), func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client conn: %s", err)
			}
		}, nil

	case BackendPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         params.PostgresHost,
			DBPort:         params.PostgresPort,
			DBName:         params.PostgresDBName,
			DBUser:         params.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		if params.PromRegistry != nil {
			params.PromRegistry.MustRegister(pgxpoolprometheus.NewCollector(
				dbPool,
				map[string]string{"db_name": params.PostgresDBName},
			))
		}

		backend := NewPostgresBackend(dbPool, key)
		if err := backend.Migrate(ctx); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		return New(backend, params.MetricsManager), func() {
			log.Debugln("closing db pool ...")
			dbPool.Close()
			log.Debugln("db pool closed")
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend [%s]", params.Backend)
	}
}
