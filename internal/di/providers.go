package di

import (
	"context"
	"fmt"
	"time"

	"github.com/shashe9/teaminfinity/internal/domain/repository"
	"github.com/shashe9/teaminfinity/internal/handler/api"
	internalrepo "github.com/shashe9/teaminfinity/internal/repository"
	"github.com/shashe9/teaminfinity/internal/usecase"
	"github.com/shashe9/teaminfinity/pkg/cache"
	pkgch "github.com/shashe9/teaminfinity/pkg/clickhouse"
	"github.com/shashe9/teaminfinity/pkg/config"
	xhttp "github.com/shashe9/teaminfinity/pkg/http"
	"github.com/shashe9/teaminfinity/pkg/logger"
	"github.com/shashe9/teaminfinity/pkg/metrics"
	"github.com/shashe9/teaminfinity/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if logCfg.Format == "" {
		logCfg.Format = "console"
	}
	if logCfg.Output == "" {
		logCfg.Output = "stdout"
	}
	return logger.New(logCfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the sample store for the configured backend. The
// ClickHouse variant owns its client and initializes the schema.
func ProvideStore(cfg *config.Config) (repository.SampleStore, error) {
	switch cfg.Store.Backend {
	case "csv":
		return internalrepo.NewCSVStore(cfg.Store.Path), nil

	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		table := SampleTable(cfg)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database, table)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}

		return internalrepo.NewClickHouseStore(client, table), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// SampleTable resolves the fully qualified sample table name.
func SampleTable(cfg *config.Config) string {
	table := cfg.Store.Table
	if table == "" {
		table = "orbit_samples"
	}
	return cfg.ClickHouse.Database + "." + table
}

// ProvideCache creates the summary cache for the configured backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideDataset creates the query service.
func ProvideDataset(
	store repository.SampleStore,
	cacheSvc cache.Service,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.Dataset {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return usecase.NewDataset(store, cacheSvc, m, log, ttl)
}

// ProvideHandler creates the dashboard API handler.
func ProvideHandler(dataset *usecase.Dataset, log *logger.Logger) xhttp.Handler {
	return api.NewOrbitsHandler(dataset, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	dataset *usecase.Dataset,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, dataset, handler)
}
