package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/yahoo"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	"StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/queue"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCacheStore builds the forecast cache: a file or Redis backend with
// an in-memory L1 in front when enabled.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	var backend cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		backend = rc
	default:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		backend = fc
	}

	if cfg.Cache.Memory.Enabled {
		return cache.NewLayeredCache(backend,
			cache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize),
		), nil
	}
	return backend, nil
}

// ProvideSeriesLoader creates the Yahoo chart API loader.
func ProvideSeriesLoader(cfg *config.Config, log *logger.Logger) domrepo.SeriesLoader {
	return yahoo.NewClient(yahoo.Config{
		BaseURL:      cfg.Market.BaseURL,
		Timeout:      cfg.Market.Timeout,
		RateCapacity: cfg.Market.RateLimit.Capacity,
		RateRefill:   cfg.Market.RateLimit.RefillPerSec,
	}, log)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// archive feature is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	ch := cfg.Archive.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSeriesStore creates the ClickHouse archive, or nil when disabled.
func ProvideSeriesStore(chClient *pkgch.Client, log *logger.Logger) domrepo.SeriesStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHSeriesStore(chClient)
	store.SetLogger(log)
	return store
}

// ProvideKafkaProducer creates a Kafka producer, or nil when events are
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}

	k := cfg.Events.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithMaxAttempts(k.MaxAttempts),
		pkgkafka.WithTimeouts(k.WriteTimeout, k.ReadTimeout),
		pkgkafka.WithAsync(k.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideForecastPublisher creates the Kafka forecast publisher, or nil when
// events are disabled.
func ProvideForecastPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.ForecastPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaForecastPublisher(producer, cfg.Events.Kafka.Topic)
}

// ProvideForecastUseCase creates the forecast pipeline use case.
func ProvideForecastUseCase(
	loader domrepo.SeriesLoader,
	store cache.Store,
	archive domrepo.SeriesStore,
	publisher domrepo.ForecastPublisher,
	m domrepo.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(loader, store, archive, publisher, m, log, usecase.ForecastConfig{
		LookbackDays:    cfg.Market.LookbackDays,
		CacheTTL:        cfg.Cache.TTL,
		DefaultStrategy: cfg.Forecast.DefaultStrategy,
		DefaultDays:     cfg.Forecast.PredictionDays,
		EvalWindow:      cfg.Forecast.EvalWindow,
		SeqLength:       cfg.Forecast.SeqLength,
		Hidden:          cfg.Forecast.Hidden,
		Layers:          cfg.Forecast.Layers,
		Epochs:          cfg.Forecast.Epochs,
		LearnRate:       cfg.Forecast.LearnRate,
		Seed:            cfg.Forecast.Seed,
	})
}

// ProvideHistoryUseCase creates the history use case.
func ProvideHistoryUseCase(loader domrepo.SeriesLoader, store cache.Store, m domrepo.Metrics, log *logger.Logger, cfg *config.Config) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(loader, store, m, log, cfg.Cache.TTL)
}

// ProvideInfoUseCase creates the instrument info use case.
func ProvideInfoUseCase(loader domrepo.SeriesLoader, store cache.Store, m domrepo.Metrics, log *logger.Logger, cfg *config.Config) *usecase.InfoUseCase {
	return usecase.NewInfoUseCase(loader, store, m, log, cfg.Cache.TTL)
}

// ProvideCatalogUseCase creates the catalog use case.
func ProvideCatalogUseCase(info *usecase.InfoUseCase) *usecase.CatalogUseCase {
	return usecase.NewCatalogUseCase(info)
}

// ProvideQueuePool creates the prewarm worker pool with its job registered,
// or nil when prewarm is disabled.
func ProvideQueuePool(cfg *config.Config, log *logger.Logger, forecaster *usecase.ForecastUseCase) *queue.Pool {
	if !cfg.Prewarm.Enabled {
		return nil
	}

	pool := queue.NewPool(queue.Config{
		Workers:    cfg.Prewarm.Workers,
		QueueSize:  len(cfg.Prewarm.Tickers) + 16,
		RetryLimit: 2,
		RetryDelay: 5 * time.Second,
	}, log)
	pool.Register(usecase.NewPrewarmJob(forecaster, log))
	return pool
}

// ProvideHTTPHandler creates the stocks HTTP handler.
func ProvideHTTPHandler(
	log *logger.Logger,
	forecaster *usecase.ForecastUseCase,
	history *usecase.HistoryUseCase,
	info *usecase.InfoUseCase,
	catalog *usecase.CatalogUseCase,
) xhttp.Handler {
	return api.NewStocksEchoHandler(log, forecaster, history, info, catalog)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	store cache.Store,
	chClient *pkgch.Client,
	publisher domrepo.ForecastPublisher,
	pool *queue.Pool,
) *server.App {
	return server.New(cfg, log, handler, store, chClient, publisher, pool)
}
