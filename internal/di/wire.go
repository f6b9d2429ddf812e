//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideSeriesLoader,
		ProvideSeriesStore,
		ProvideForecastPublisher,

		// Use cases
		ProvideForecastUseCase,
		ProvideHistoryUseCase,
		ProvideInfoUseCase,
		ProvideCatalogUseCase,
		ProvideQueuePool,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
