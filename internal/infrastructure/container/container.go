// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kondate/mealplanner/internal/application/history"
	"github.com/kondate/mealplanner/internal/application/mealplan"
	"github.com/kondate/mealplanner/internal/domain/ai"
	"github.com/kondate/mealplanner/internal/infrastructure/ai/ollama"
	"github.com/kondate/mealplanner/internal/infrastructure/ai/openai"
	"github.com/kondate/mealplanner/internal/infrastructure/config"
	"github.com/kondate/mealplanner/internal/infrastructure/http/apiserver"
	"github.com/kondate/mealplanner/internal/infrastructure/http/handlers"
	"github.com/kondate/mealplanner/internal/infrastructure/monitoring"
	gormRepo "github.com/kondate/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/kondate/mealplanner/internal/infrastructure/persistence/memory"
	redisRepo "github.com/kondate/mealplanner/internal/infrastructure/persistence/redis"
	"github.com/kondate/mealplanner/internal/ports/inbound"
	"github.com/kondate/mealplanner/internal/ports/outbound"
	"github.com/kondate/mealplanner/pkg/healthcheck"
	"github.com/kondate/mealplanner/pkg/logger"
)

// ConfigPath is the optional config file handed to config.Load
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	TelemetryModule,
	DatabaseModule,
	CacheModule,
	CompletionModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging, and routes fx's own events through it
var LoggerModule = fx.Options(
	fx.Provide(NewLogger),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx").WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
	}),
)

// NewLogger builds the application logger from the logging section
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Logging.Development,
		OutputPaths: cfg.Logging.OutputPaths,
	})
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", cfg.App.Name), zap.String("version", cfg.App.Version)), nil
}

// TelemetryModule provides metrics and tracing
var TelemetryModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) outbound.MetricsRecorder { return m },
	NewTracingProvider,
)

// NewTracingProvider installs the global tracer provider and flushes it on stop
func NewTracingProvider(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		Endpoint:       cfg.Monitoring.OTLPEndpoint,
		Insecure:       cfg.Monitoring.TracingInsecure,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.TracingEnabled,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

// DatabaseModule provides database connections and the meal plan repository
var DatabaseModule = fx.Provide(
	NewDatabase,
	fx.Annotate(
		gormRepo.NewMealPlanRepository,
		fx.As(new(outbound.MealPlanRepository)),
	),
)

// NewDatabase opens and migrates the configured database
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := gormRepo.Open(ctx, gormRepo.DatabaseConfig{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		LogLevel:     cfg.Database.LogLevel,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return gormRepo.Close(db)
		},
	})
	return db, nil
}

// CacheModule provides the latest plan cache
var CacheModule = fx.Provide(NewCache)

// NewCache connects to Redis when enabled and otherwise keeps the cache in memory
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
	if !cfg.Redis.Enabled {
		log.Info("Using in-memory cache")
		cache := memory.NewCacheRepository(time.Minute)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				cache.Close()
				return nil
			},
		})
		return cache, nil
	}

	cache, err := redisRepo.Connect(context.Background(), redisRepo.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	return cache, nil
}

// CompletionModule provides the completion client
var CompletionModule = fx.Provide(NewCompleter)

// NewCompleter returns nil when no provider is usable, which leaves only the rule-based generator
func NewCompleter(cfg *config.Config, log *zap.Logger) outbound.TextCompletionService {
	if !cfg.AI.CompletionEnabled() {
		log.Warn("No completion provider configured, meal plans will use rule-based suggestions",
			zap.String("provider", cfg.AI.Provider))
		return nil
	}

	if cfg.AI.Provider == string(ai.ProviderTypeOllama) {
		return ollama.NewClient(ollama.Config{
			BaseURL:     cfg.AI.OllamaHost,
			Model:       cfg.AI.OllamaModel,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout(),
		}, log)
	}

	return openai.NewClient(openai.Config{
		APIKey:            cfg.AI.OpenAIKey,
		BaseURL:           cfg.AI.BaseURL,
		Model:             cfg.AI.OpenAIModel,
		Temperature:       cfg.AI.Temperature,
		MaxTokens:         cfg.AI.MaxTokens,
		Timeout:           cfg.AI.Timeout(),
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		Burst:             cfg.AI.Burst,
	}, log)
}

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		mealplan.NewService,
		fx.As(new(inbound.MealPlanService)),
	),
	func(
		repo outbound.MealPlanRepository,
		cache outbound.CacheRepository,
		metrics outbound.MetricsRecorder,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.HistoryService {
		return history.NewService(repo, cache, cfg.Cache.LatestPlanTTL, metrics, log)
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	NewHealthCheck,
	handlers.NewHealthHandlers,
	handlers.NewMealPlanHandlers,
	apiserver.NewServer,
)

// NewHealthCheck registers a probe per external dependency
func NewHealthCheck(
	cfg *config.Config,
	db *gorm.DB,
	cache outbound.CacheRepository,
	completer outbound.TextCompletionService,
	log *zap.Logger,
) (*healthcheck.HealthCheck, error) {
	checks := healthcheck.New(cfg.App.Version, log.Named("healthcheck"))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	checks.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

	if rc, ok := cache.(*redisRepo.CacheRepository); ok {
		checks.Register("redis", healthcheck.NewRedisChecker(rc.Client()))
	}

	enabled := completer != nil
	checks.Register("completion", healthcheck.NewCustomChecker(func(context.Context) (healthcheck.Status, string, interface{}) {
		if !enabled {
			return healthcheck.StatusDegraded, "rule-based suggestions only", nil
		}
		return healthcheck.StatusHealthy, "", map[string]interface{}{"provider": cfg.AI.Provider}
	}))

	return checks, nil
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts the HTTP server with the app and stops it first on shutdown
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
	completer outbound.TextCompletionService,
	tracing *monitoring.TracingProvider,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting kondate application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("address", cfg.Address()),
				zap.Bool("completion_enabled", completer != nil),
				zap.Bool("tracing_enabled", tracing.Enabled()),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down kondate application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
