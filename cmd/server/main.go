package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockprep/interview/internal/cache"
	"mockprep/interview/internal/catalog"
	"mockprep/interview/internal/config"
	"mockprep/interview/internal/events"
	"mockprep/interview/internal/handlers"
	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/interviewer"
	"mockprep/interview/internal/jobs"
	"mockprep/interview/internal/llm"
	_ "mockprep/interview/internal/llm/anthropic"
	_ "mockprep/interview/internal/llm/gemini"
	_ "mockprep/interview/internal/llm/openai"
	"mockprep/interview/internal/lock"
	"mockprep/interview/internal/metrics"
	"mockprep/interview/internal/prompts"
	"mockprep/interview/internal/routers"
	"mockprep/interview/internal/store"
	"mockprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the wired service, ready to serve.
type app struct {
	router   *chi.Mux
	exporter *jobs.SummaryExporterJob
	profiles *cache.CachedProfiles
}

func (a *app) close() {
	if a.exporter != nil {
		a.exporter.Stop()
	}
	a.profiles.Close()
}

// newApp wires the interview service on top of its infrastructure. rdb may be
// nil, in which case locks stay in process and no events are published.
func newApp(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, provider llm.Provider, logger *zap.Logger) (*app, error) {
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	sessions := store.NewSessionRepository(db)
	profiles := cache.NewCachedProfiles(store.NewProfileRepository(db), cache.DefaultRoleTTL)

	if cfg.SeedRoleProfiles {
		inserted, err := profiles.SeedRoles(ctx, cat.RoleProfiles(uuid.NewString))
		if err != nil {
			profiles.Close()
			return nil, err
		}
		logger.Info("Role profiles seeded", zap.Int("inserted", inserted))
	}

	var locker interview.Locker = lock.NewLocalLockerWithWait(cfg.LockWait())
	var publisher interview.EventPublisher = events.NopPublisher{}
	dependencies := map[string]handlers.DependencyCheck{
		"database": func(ctx context.Context) error { return store.Ping(ctx, db) },
	}
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL(), cfg.LockWait(), logger)
		publisher = events.NewRedisPublisher(rdb, logger)
		dependencies["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	controller := interview.NewController(interview.Dependencies{
		Sessions:   sessions,
		Profiles:   profiles,
		Questions:  interviewer.NewGenerator(provider, promptManager, logger),
		Evaluator:  interviewer.NewEvaluator(provider, promptManager, logger),
		Structures: cat,
		Locker:     locker,
		Events:     publisher,
		Metrics:    metrics.NewRecorder(),
		Logger:     logger,
	}, interview.Options{
		HiringThreshold:  cfg.HiringThreshold,
		SummaryFinalizes: cfg.SummaryFinalizes,
		ProviderName:     provider.GetProviderName(),
	})

	exporterJob := jobs.NewSummaryExporterJob(sessions, controller.SummaryOptions(), &jobs.ExporterConfig{
		Schedule:      cfg.SummaryExportSchedule,
		ExportDir:     cfg.SummaryExportDir,
		ExportEnabled: cfg.SummaryExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start summary exporter job", zap.Error(err))
		exporterJob = nil
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(cfg.RequestDeadline()))
	router.Use(metrics.Middleware(serviceName))

	routers.HealthRoutes(router, handlers.NewHealthHandler(provider, promptManager, cfg, dependencies))
	routers.InterviewRoutes(router, handlers.NewInterviewHandler(controller, logger), cfg.JWTSecret)
	routers.ProfileRoutes(router, handlers.NewProfileHandler(profiles, cat, logger), cfg.JWTSecret)
	routers.AdminRoutes(router, handlers.NewAdminHandler(controller, logger), cfg.JWTSecret)

	return &app{router: router, exporter: exporterJob, profiles: profiles}, nil
}

const serviceName = "interview"

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	logger, err := utils.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("summary_finalizes", cfg.SummaryFinalizes))

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		logger.Info("Redis connected, using distributed session locks", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, session locks are process-local")
	}

	// AI provider based on configuration
	baseProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	retryConfig := llm.DefaultRetryConfig()
	retryConfig.MaxAttempts = cfg.LLMMaxAttempts
	retryConfig.Timeout = cfg.LLMTimeout
	aiProvider := llm.WithRetry(baseProvider, retryConfig)

	application, err := newApp(context.Background(), cfg, db, rdb, aiProvider, logger)
	if err != nil {
		logger.Fatal("Failed to initialize interview service", zap.Error(err))
	}

	serverAddr := ":" + cfg.Port

	// http server with timeouts; question generation can take a while
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      application.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestDeadline() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	application.close()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
