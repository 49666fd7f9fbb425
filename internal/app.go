package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	logger_adapter "qwiksale-search-service/internal/adapters/logger"
	postgres_adapter "qwiksale-search-service/internal/adapters/postgres"
	rabbitmq_adapter "qwiksale-search-service/internal/adapters/rabbitmq"
	redis_adapter "qwiksale-search-service/internal/adapters/redis"
	"qwiksale-search-service/internal/adapters/rest"
	"qwiksale-search-service/internal/configs"
	"qwiksale-search-service/internal/core/port"
	"qwiksale-search-service/internal/core/usecase"
	"qwiksale-search-service/pkg/fluentlogger"
	"qwiksale-search-service/pkg/postgres"
)

// App is the application structure.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	redisClient  *goredis.Client
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	eventsProd   *rabbitmq_adapter.SearchEventsProducer
	logger       port.LoggerPort
}

// NewApp is the composition root: every dependency is created and wired here.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- Loggers ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- PostgreSQL ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Postgres.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingSearchAdapter, err := postgres_adapter.NewListingSearchAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing search adapter: %w", err)
	}
	facetReader, err := postgres_adapter.NewFacetReaderAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create facet reader: %w", err)
	}
	sellerDirectory, err := postgres_adapter.NewSellerDirectoryAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create seller directory adapter: %w", err)
	}
	synonymRepo, err := postgres_adapter.NewSynonymRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create synonym repository: %w", err)
	}
	appLogger.Info("Postgres adapters initialized.", nil)

	// --- Redis rate limiter ---
	var limiter port.RateLimiterPort
	var redisClient *goredis.Client
	if appConfig.RateLimit.Enabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		limiter, err = redis_adapter.NewFixedWindowLimiter(redisClient, int(appConfig.RateLimit.Limit), appConfig.RateLimit.Window)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		appLogger.Info("Rate limiter initialized.", port.Fields{
			"limit":  appConfig.RateLimit.Limit,
			"window": appConfig.RateLimit.Window.String(),
		})
	} else {
		appLogger.Warn("Rate limiting is disabled.", nil)
	}

	// --- Search events producer (optional) ---
	var eventsProducer *rabbitmq_adapter.SearchEventsProducer
	var eventsPort port.SearchEventsPort
	if appConfig.Events.Enabled {
		eventsProducer, err = rabbitmq_adapter.NewSearchEventsProducer(rabbitmq_adapter.ProducerConfig{
			URL:        appConfig.Events.URL,
			Exchange:   appConfig.Events.Exchange,
			RoutingKey: appConfig.Events.RoutingKey,
		}, baseLogger.WithFields(port.Fields{"component": "search_events_producer"}))
		if err != nil {
			// Analytics is enrichment only, the service still serves search.
			appLogger.Error("Failed to create search events producer, continuing without analytics", err, nil)
			eventsProducer = nil
		} else {
			eventsPort = eventsProducer
		}
	}

	// --- Use cases ---
	searchListingsUseCase := usecase.NewSearchListingsUseCase(listingSearchAdapter, facetReader, sellerDirectory, synonymRepo, eventsPort)
	getDictionariesUseCase := usecase.NewGetDictionariesUseCase(facetReader)
	appLogger.Info("All use cases initialized.", nil)

	// --- REST API server ---
	searchHandler := rest.NewSearchHandler(searchListingsUseCase)
	dictionariesHandler := rest.NewDictionariesHandler(getDictionariesUseCase)
	healthCheck := func(ctx context.Context) error { return dbPool.Ping(ctx) }

	apiServer := rest.NewServer(appConfig.Rest.PORT, searchHandler, dictionariesHandler, limiter, healthCheck, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:       appConfig,
		dbPool:       dbPool,
		redisClient:  redisClient,
		apiServer:    apiServer,
		fluentClient: fluentClient,
		eventsProd:   eventsProducer,
		logger:       appLogger,
	}, nil
}

// Run starts the components and manages their lifecycle.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.apiServer.Stop(shutdownCtx); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
			cancel()
		}

		if a.eventsProd != nil {
			if err := a.eventsProd.Close(); err != nil {
				a.logger.Error("Error closing search events producer", err, nil)
			}
		}

		if a.redisClient != nil {
			if err := a.redisClient.Close(); err != nil {
				a.logger.Error("Error closing redis client", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// stdout, fluent itself may already be unreachable
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	}

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
